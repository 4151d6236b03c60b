package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type TrialWarningData struct {
	CondoName  string
	DaysLeft   int
	ExpiryDate time.Time
}

type SubscriptionEmailData struct {
	CondoName string
	PlanName  string
	Price     float64
	ExpiresAt time.Time
	IsRenewal bool
}

type SubscriptionCancelledData struct {
	CondoName string
	PlanName  string
	ExpiresAt time.Time
}

type DemoWelcomeData struct {
	CondoName  string
	AccessLink string
	ExpiresAt  time.Time
}

type MaintenanceDueData struct {
	CondoName string
	TaskTitle string
	DueDate   time.Time
}

type GenericData struct {
	Body template.HTML
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "Condomínio Fácil <noreply@condofacil.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Resend API error: status %d, body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

func (s *EmailService) SendTrialExpiryWarning(to, condoName string, daysLeft int, expiryDate time.Time) error {
	data := TrialWarningData{
		CondoName:  condoName,
		DaysLeft:   daysLeft,
		ExpiryDate: expiryDate,
	}
	return s.sendTemplateEmail(to, "Seu período de teste está acabando ⏳", "trial_warning.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(to, condoName, planName string, price float64, expiresAt time.Time, isRenewal bool) error {
	data := SubscriptionEmailData{
		CondoName: condoName,
		PlanName:  planName,
		Price:     price,
		ExpiresAt: expiresAt,
		IsRenewal: isRenewal,
	}

	subject := "Bem-vindo ao Condomínio Fácil! 🎉"
	if isRenewal {
		subject = "Sua assinatura foi renovada 🔄"
	}

	return s.sendTemplateEmail(to, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(to, condoName, planName string, expiresAt time.Time) error {
	data := SubscriptionCancelledData{
		CondoName: condoName,
		PlanName:  planName,
		ExpiresAt: expiresAt,
	}
	return s.sendTemplateEmail(to, "Sua assinatura foi cancelada", "subscription_cancelled.html", data)
}

func (s *EmailService) SendDemoWelcomeEmail(to, condoName, accessLink string, expiresAt time.Time) error {
	data := DemoWelcomeData{
		CondoName:  condoName,
		AccessLink: accessLink,
		ExpiresAt:  expiresAt,
	}
	return s.sendTemplateEmail(to, "Seu ambiente de demonstração está pronto", "demo_welcome.html", data)
}

func (s *EmailService) SendMaintenanceDueEmail(to, condoName, taskTitle string, dueDate time.Time) error {
	data := MaintenanceDueData{
		CondoName: condoName,
		TaskTitle: taskTitle,
		DueDate:   dueDate,
	}
	return s.sendTemplateEmail(to, "Manutenção programada se aproximando 🔧", "maintenance_due.html", data)
}

// SendGenericEmail is the notification dispatcher's exit: the queue row
// already carries a rendered body.
func (s *EmailService) SendGenericEmail(to, subject, htmlBody string) error {
	return s.sendTemplateEmail(to, subject, "generic.html", GenericData{Body: template.HTML(htmlBody)})
}
