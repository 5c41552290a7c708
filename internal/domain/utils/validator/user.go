package validator

import (
	"net/mail"
	"strings"

	"github.com/spf13/viper"
)

// Email checks the address format and, when settings.auth.valid-email-domains
// is set, that it belongs to one of the campus domains.
func Email(email string, _ map[string]interface{}) bool {
	return EmailFormat(email) && emailDomain(email)
}

func EmailFormat(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func emailDomain(email string) bool {
	validDomains := viper.GetStringSlice("settings.auth.valid-email-domains")
	if len(validDomains) == 0 {
		return true
	}
	for _, domain := range validDomains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	return false
}
