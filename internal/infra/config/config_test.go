package config

import "testing"

func secretsConfig(access, refresh, activation string) *AppConfig {
	return &AppConfig{Tokens: TokenSettings{
		AccessSecret:     access,
		RefreshSecret:    refresh,
		ActivationSecret: activation,
	}}
}

func TestValidateAcceptsDistinctSecrets(t *testing.T) {
	cfg := secretsConfig("access-secret", "refresh-secret", "activation-secret")
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
}

func TestValidateRejectsMissingSecrets(t *testing.T) {
	cfg := secretsConfig("access-secret", "", "activation-secret")
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestValidateRejectsReusedSecrets(t *testing.T) {
	cases := []struct {
		name string
		cfg  *AppConfig
	}{
		{"access equals refresh", secretsConfig("shared", "shared", "activation-secret")},
		{"access equals activation", secretsConfig("shared", "refresh-secret", "shared")},
		{"refresh equals activation", secretsConfig("access-secret", "shared", "shared")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.validate(); err == nil {
				t.Fatal("expected error for reused secret")
			}
		})
	}
}
