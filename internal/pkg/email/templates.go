package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// CredentialsSubject is the subject of every credentials email
const CredentialsSubject = "Your Account Password"

// CredentialsData fills the credentials templates
type CredentialsData struct {
	Name     string
	Email    string
	Password string
	Role     string
}

var credentialsHTML = htmltemplate.Must(htmltemplate.New("credentials").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
		<p>Your {{.Role}} account has been created. Use the details below to sign in:</p>
		<p>Email: <strong>{{.Email}}</strong><br>
		Password: <strong>{{.Password}}</strong></p>
		<p>Please keep this password safe.</p>
	</div>
</body>
</html>`))

var credentialsText = texttemplate.Must(texttemplate.New("credentials").Parse(`Welcome{{if .Name}}, {{.Name}}{{end}}!

Your {{.Role}} account has been created. Use the details below to sign in:

Email: {{.Email}}
Password: {{.Password}}

Please keep this password safe.
`))

// CredentialsMessage renders the credentials email for one recipient.
func CredentialsMessage(data CredentialsData) (Message, error) {
	var html, text bytes.Buffer
	if err := credentialsHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render credentials html: %w", err)
	}
	if err := credentialsText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render credentials text: %w", err)
	}

	return Message{
		To:       data.Email,
		ToName:   data.Name,
		Subject:  CredentialsSubject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
