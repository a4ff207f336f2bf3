package validator

import (
	"net/url"
	"strings"

	"github.com/dazzle-lang/dazzle/internal/appspec"
)

// requiredAuthOptions lists the option keys each auth kind must supply.
var requiredAuthOptions = map[appspec.AuthKind][]string{
	appspec.AuthOAuth2Legacy: {"client_id", "client_secret"},
	appspec.AuthOAuth2PKCE:   {"client_id"},
	appspec.AuthJWTStatic:    {"token"},
	appspec.AuthAPIKeyHeader: {"header"},
	appspec.AuthAPIKeyQuery:  {"param"},
	appspec.AuthNone:         nil,
}

// checkServices enforces service rules: a parseable absolute spec URL and
// a complete auth profile for its kind.
func (c *checker) checkServices() {
	for _, svc := range c.app.Services {
		u, err := url.Parse(svc.URL)
		if err != nil || !u.IsAbs() {
			c.errorf(svc.Decl, "service '%s': spec url '%s' is not an absolute URL", svc.Name, svc.URL)
		}

		required, known := requiredAuthOptions[svc.Auth.Kind]
		if !known {
			// Guaranteed by the parser; re-checked defensively.
			c.errorf(svc.Decl, "service '%s': unknown auth kind '%s'", svc.Name, svc.Auth.Kind)
			continue
		}
		for _, opt := range required {
			if _, ok := svc.Auth.Options[opt]; !ok {
				c.errorf(svc.Decl, "service '%s': auth kind '%s' requires option '%s'",
					svc.Name, svc.Auth.Kind, opt)
			}
		}

		if svc.Contact != "" && !strings.Contains(svc.Contact, "@") {
			c.warnf(svc.Decl, "service '%s': contact '%s' does not look like an e-mail address",
				svc.Name, svc.Contact)
		}
	}
}

// checkForeignModels enforces foreign-model rules: the owning service
// exists, key fields are declared fields, and the field set is sound.
func (c *checker) checkForeignModels() {
	for _, fm := range c.app.ForeignModels {
		if _, ok := c.app.Service(fm.Service); !ok {
			// Guaranteed by the linker; re-checked defensively.
			c.errorf(fm.Decl, "foreign_model '%s' belongs to unknown service '%s'", fm.Name, fm.Service)
		}

		if len(fm.KeyFields) == 0 {
			c.errorf(fm.Decl, "foreign_model '%s' declares no key fields", fm.Name)
		}
		for _, key := range fm.KeyFields {
			if _, ok := fm.Field(key); !ok {
				c.errorf(fm.Decl, "foreign_model '%s': key field '%s' is not declared", fm.Name, key)
			}
		}

		seen := make(map[appspec.ForeignConstraint]bool, len(fm.Constraints))
		for _, con := range fm.Constraints {
			if seen[con] {
				c.warnf(fm.Decl, "foreign_model '%s' repeats constraint '%s'", fm.Name, con)
			}
			seen[con] = true
		}

		c.checkFieldSet(fm.Name, fm.Decl, fm.Fields, false)
	}
}
