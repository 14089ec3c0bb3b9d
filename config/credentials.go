package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Account is one backend login.
type Account struct {
	UserID   string
	Password string
}

// Credentials reads accounts from an INI file with one section per backend:
//
//	[daily_necessities]
//	user_id  = 12345
//	password = secret
type Credentials struct {
	cfg *ini.File
}

func NewCredentials(path string) (*Credentials, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load credentials %s: %w", path, err)
	}
	return &Credentials{cfg: cfg}, nil
}

// Profiles lists the non-empty sections.
func (c *Credentials) Profiles() []string {
	var profiles []string
	for _, section := range c.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles
}

// Account returns the login stored under profile. user_id is required.
func (c *Credentials) Account(profile string) (Account, error) {
	section, err := c.cfg.GetSection(profile)
	if err != nil {
		return Account{}, fmt.Errorf("profile %s not found (have: %s)", profile, strings.Join(c.Profiles(), ", "))
	}

	account := Account{
		UserID:   section.Key("user_id").String(),
		Password: section.Key("password").String(),
	}
	if account.UserID == "" {
		return Account{}, fmt.Errorf("profile %s: user_id is empty", profile)
	}
	return account, nil
}
