package mail

import (
	"fmt"
	"html/template"
	"strings"
)

var activationTemplate = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome to MemeMatch, {{.Username}}!</h2>
    <p>Use the code below to activate your account. It expires in {{.ExpiresIn}}.</p>
    <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
    <p>If you did not sign up, you can safely ignore this message.</p>
  </body>
</html>`))

// ActivationEmail renders the activation message body for the given
// registration.
func ActivationEmail(username, code, expiresIn string) (string, error) {
	var b strings.Builder
	err := activationTemplate.Execute(&b, struct {
		Username  string
		Code      string
		ExpiresIn string
	}{
		Username:  username,
		Code:      code,
		ExpiresIn: expiresIn,
	})
	if err != nil {
		return "", fmt.Errorf("render activation email: %w", err)
	}

	return b.String(), nil
}
