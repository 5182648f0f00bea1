package service

import (
	"testing"

	"absensiku_backend/internals/constants"
	userModel "absensiku_backend/internals/features/users/user/model"
)

func strPtr(s string) *string { return &s }

func TestDecideDevice(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		bound    *string
		incoming string
		want     DeviceDecision
	}{
		{"first login binds the device", constants.RoleEmployee, nil, "device-a", DeviceAllowBind},
		{"empty stored binding counts as unbound", constants.RoleEmployee, strPtr(""), "device-a", DeviceAllowBind},
		{"same device passes", constants.RoleEmployee, strPtr("device-a"), "device-a", DeviceAllowMatch},
		{"different device is blocked", constants.RoleEmployee, strPtr("device-a"), "device-b", DeviceBlock},
		{"admin bypasses binding entirely", constants.RoleAdmin, strPtr("device-a"), "device-b", DeviceAllowMatch},
		{"admin without binding never binds", constants.RoleAdmin, nil, "device-a", DeviceAllowMatch},
		{"missing device identity fails open", constants.RoleEmployee, strPtr("device-a"), "", DeviceAllowMatch},
		{"missing identity on unbound user fails open too", constants.RoleEmployee, nil, "", DeviceAllowMatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := &userModel.UserModel{Role: tc.role, DeviceID: tc.bound}
			got := DecideDevice(user, tc.incoming)
			if got != tc.want {
				t.Fatalf("DecideDevice(role=%s, bound=%v, incoming=%q) = %v, want %v",
					tc.role, tc.bound, tc.incoming, got, tc.want)
			}
		})
	}
}

func TestDecideDevice_Ordering(t *testing.T) {
	t.Run("admin bypass wins over fail-open", func(t *testing.T) {
		user := &userModel.UserModel{Role: constants.RoleAdmin}
		if got := DecideDevice(user, ""); got != DeviceAllowMatch {
			t.Fatalf("expected allow_match for admin with empty identity, got %v", got)
		}
	})

	t.Run("fail-open wins over bind", func(t *testing.T) {
		// Identitas kosong tidak boleh mengikat string kosong sebagai perangkat.
		user := &userModel.UserModel{Role: constants.RoleEmployee}
		if got := DecideDevice(user, ""); got == DeviceAllowBind {
			t.Fatalf("empty identity must never result in allow_bind, got %v", got)
		}
	})

	t.Run("decision is stable for repeated calls", func(t *testing.T) {
		user := &userModel.UserModel{Role: constants.RoleEmployee, DeviceID: strPtr("device-a")}
		first := DecideDevice(user, "device-b")
		second := DecideDevice(user, "device-b")
		if first != second || first != DeviceBlock {
			t.Fatalf("expected stable block decision, got %v then %v", first, second)
		}
	})
}
