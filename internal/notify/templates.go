package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
	KindWelcome       Kind = "welcome"
)

// templateData is the only dynamic input of the three messages.
type templateData struct {
	Code          string
	ResetURL      string
	Recipient     string
	ExpiryMinutes int
	ExpiryHours   int
}

type pair struct {
	subject string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

const layoutHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
.content { background: #f8fafc; padding: 30px; border-radius: 0 0 8px 8px; }
.code { background: #e2e8f0; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 3px; border-radius: 6px; margin: 20px 0; }
.button { display: inline-block; background: #dc2626; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
.footer { text-align: center; margin-top: 30px; color: #64748b; font-size: 14px; }
</style>
</head>
<body>
<div class="container">`

const layoutFoot = `<div class="footer"><p>&copy; LeetGuard. All rights reserved.</p></div>
</div>
</body>
</html>`

var templates = map[Kind]pair{
	KindVerification: {
		subject: "Verify Your Email - LeetGuard",
		html: htmltemplate.Must(htmltemplate.New("verification").Parse(layoutHead + `
<div class="header" style="background: #2563eb;"><h1>LeetGuard</h1><p>Verify Your Email Address</p></div>
<div class="content">
<h2>Welcome to LeetGuard!</h2>
<p>Thank you for signing up. To complete your registration, please enter the verification code below:</p>
<div class="code">{{.Code}}</div>
<p><strong>This code will expire in {{.ExpiryMinutes}} minutes.</strong></p>
<p>If you didn't create an account with LeetGuard, you can safely ignore this email.</p>
</div>
` + layoutFoot)),
		text: texttemplate.Must(texttemplate.New("verification").Parse(`Welcome to LeetGuard!

Thank you for signing up. To complete your registration, please enter the verification code below:

{{.Code}}

This code will expire in {{.ExpiryMinutes}} minutes.

If you didn't create an account with LeetGuard, you can safely ignore this email.
`)),
	},
	KindPasswordReset: {
		subject: "Reset Your Password - LeetGuard",
		html: htmltemplate.Must(htmltemplate.New("password_reset").Parse(layoutHead + `
<div class="header" style="background: #dc2626;"><h1>LeetGuard</h1><p>Reset Your Password</p></div>
<div class="content">
<h2>Password Reset Request</h2>
<p>We received a request to reset your password. Click the button below to create a new password:</p>
<a href="{{.ResetURL}}" class="button">Reset Password</a>
<p><strong>This link will expire in {{.ExpiryHours}} hour(s).</strong></p>
<p>If you didn't request a password reset, you can safely ignore this email. Your password will remain unchanged.</p>
</div>
` + layoutFoot)),
		text: texttemplate.Must(texttemplate.New("password_reset").Parse(`Password Reset Request

We received a request to reset your password. Open the link below to create a new password:

{{.ResetURL}}

This link will expire in {{.ExpiryHours}} hour(s).

If you didn't request a password reset, you can safely ignore this email.
`)),
	},
	KindWelcome: {
		subject: "Welcome to LeetGuard!",
		html: htmltemplate.Must(htmltemplate.New("welcome").Parse(layoutHead + `
<div class="header" style="background: #16a34a;"><h1>LeetGuard</h1><p>Your email is verified</p></div>
<div class="content">
<h2>Welcome aboard, {{.Recipient}}!</h2>
<p>Your account is ready. Install the extension, pick the sites you want blocked and start logging your practice.</p>
</div>
` + layoutFoot)),
		text: texttemplate.Must(texttemplate.New("welcome").Parse(`Welcome aboard, {{.Recipient}}!

Your account is ready. Install the extension, pick the sites you want blocked and start logging your practice.
`)),
	},
}

func render(kind Kind, to string, data templateData) (Message, error) {
	p, ok := templates[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %q", kind)
	}

	var html, text bytes.Buffer
	if err := p.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", kind, err)
	}
	if err := p.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", kind, err)
	}

	return Message{
		Kind:    kind,
		To:      to,
		Subject: p.subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
