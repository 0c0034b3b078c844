package account

import (
	"bytes"
	"html/template"
)

const (
	registrationSubject = "Your OTP for FitFusion Registration"
	resendSubject       = "Your New OTP for FitFusion Registration"
	contactSubject      = "New Contact Form Submission"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #333;">{{.Heading}}</h2>
  <p>Hello {{.Name}},</p>
  <p>{{.Intro}}</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; text-align: center; font-size: 24px; letter-spacing: 5px; font-weight: bold;">
    {{.Code}}
  </div>
  <p style="margin-top: 20px;">This OTP is valid for 10 minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
  <p>Best regards,<br>The FitFusion Team</p>
</div>
`))

var contactTmpl = template.Must(template.New("contact").Parse(`
<h1>New Contact Form Submission</h1>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong> {{.Message}}</p>
`))

type verificationData struct {
	Heading string
	Name    string
	Intro   string
	Code    string
}

func verificationEmailBody(name, code string) string {
	return renderVerification(verificationData{
		Heading: "Verify Your Email",
		Name:    name,
		Intro:   "Thank you for registering with FitFusion. To complete your registration, please use the following OTP:",
		Code:    code,
	})
}

func resendEmailBody(name, code string) string {
	return renderVerification(verificationData{
		Heading: "Your New OTP",
		Name:    name,
		Intro:   "You requested a new OTP. Please use the following code to verify your account:",
		Code:    code,
	})
}

func renderVerification(d verificationData) string {
	var buf bytes.Buffer
	// Template execution over a plain struct cannot fail here.
	_ = verificationTmpl.Execute(&buf, d)
	return buf.String()
}

func contactEmailBody(req ContactRequest) string {
	var buf bytes.Buffer
	_ = contactTmpl.Execute(&buf, req)
	return buf.String()
}
