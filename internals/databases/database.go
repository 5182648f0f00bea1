package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"absensiku_backend/internals/configs"
	"absensiku_backend/internals/constants"
	eventModel "absensiku_backend/internals/features/attendance/events/model"
	zoneModel "absensiku_backend/internals/features/attendance/zones/model"
	authModel "absensiku_backend/internals/features/users/auth/model"
	userModel "absensiku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// ✅ DSN lengkap + statement_timeout
	// Catatan: kalau pakai PgBouncer, arahkan host/port ke PgBouncer dan biarkan PreferSimpleProtocol=true
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=absensiku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	// ⚖️ Sesuaikan dengan limit PgBouncer/managed Postgres
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// AutoMigrate menyiapkan seluruh tabel aplikasi.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&userModel.UserModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},
		&zoneModel.ZoneModel{},
		&zoneModel.ZoneMemberModel{},
		&eventModel.AttendanceEventModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}
	log.Println("✅ AutoMigrate selesai.")
}

// EnsureDefaultAdmin membuat akun admin pertama dari ENV bila belum ada admin sama sekali.
// Tanpa admin pertama tidak ada yang bisa membuat zona.
func EnsureDefaultAdmin() {
	email := getenv("ADMIN_EMAIL", "")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("[INFO] ADMIN_EMAIL/ADMIN_PASSWORD tidak diset, skip bootstrap admin")
		return
	}

	var count int64
	if err := DB.Model(&userModel.UserModel{}).Where("role = ?", constants.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("[WARN] cek admin gagal: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[WARN] hash password admin gagal: %v", err)
		return
	}
	admin := userModel.UserModel{
		UserName: getenv("ADMIN_USERNAME", "admin"),
		FullName: "Administrator",
		Email:    email,
		Password: string(hash),
		Role:     constants.RoleAdmin,
		IsActive: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("[WARN] bootstrap admin gagal: %v", err)
		return
	}
	log.Printf("✅ Admin pertama dibuat: %s", email)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool keisi & siap
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
		// query ringan yang paling sering dipakai: daftar zona aktif
		DB.Exec("SELECT zone_id FROM zones WHERE zone_deleted_at IS NULL LIMIT 1")
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
