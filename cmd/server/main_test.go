package main

import (
	"testing"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/config"
)

func TestValidateSecurityConfigRejectsShortSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "short"})
	if err == nil {
		t.Fatalf("expected weak security config to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{
		AuthSecret:         "0123456789abcdef0123456789abcdef",
		BootstrapAdminUser: "admin",
	})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}
