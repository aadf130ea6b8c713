package logger

import "strings"

// SanitizedLogin masks a login identifier for log output. Emails keep the
// first character and TLD ("u***@***.com"); plain usernames keep the
// first character only.
func SanitizedLogin(login string) string {
	parts := strings.Split(login, "@")
	if len(parts) != 2 {
		if len(login) <= 1 {
			return login
		}
		return string(login[0]) + strings.Repeat("*", len(login)-1)
	}

	username := parts[0]
	domain := parts[1]

	if len(username) > 1 {
		username = string(username[0]) + strings.Repeat("*", len(username)-1)
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) > 1 {
		for i := 0; i < len(domainParts)-1; i++ {
			domainParts[i] = strings.Repeat("*", len(domainParts[i]))
		}
		domain = strings.Join(domainParts, ".")
	}

	return username + "@" + domain
}

// SanitizeQueryString reports whether a query string contains sensitive
// parameters and should be redacted from request logs.
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"password",
		"token",
		"secret",
		"nonce",
		"auth",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
