package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/dpit-cms/internal/cart"
	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/i18n"
	"github.com/dpit-cms/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg    *config.EmailConfig
	sender func(toEmail, subject, body string) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.sender = s.sendTextEmail
	return s
}

// Enabled 是否启用邮件发送
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendOrderCreatedAdmin 向管理员发送新订单通知
func (s *EmailService) SendOrderCreatedAdmin(toEmail string, order *models.Order) error {
	subject, body := buildOrderCreatedAdminContent(order, i18n.DefaultLocale)
	return s.sender(toEmail, subject, body)
}

// SendOrderConfirmation 向客户发送下单确认
func (s *EmailService) SendOrderConfirmation(order *models.Order) error {
	subject, body := buildOrderConfirmationContent(order, order.Locale)
	return s.sender(order.Email, subject, body)
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderNo string
	Status  string
	Paid    *bool
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(toEmail string, input OrderStatusEmailInput, locale string) error {
	subject, body := buildOrderStatusContent(input, locale)
	return s.sender(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	if s.cfg.UseTLS {
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
}

func buildOrderCreatedAdminContent(order *models.Order, locale string) (string, string) {
	locale = normalizeLocale(locale)
	subject := i18n.Sprintf(locale, "email.order_created.admin_subject", order.OrderNo)
	var body strings.Builder
	body.WriteString(i18n.Sprintf(locale, "email.order_created.admin_intro", order.OrderNo))
	body.WriteString("\n\n")
	body.WriteString(i18n.Sprintf(locale, "email.order.contact", order.FullName(), order.Email, order.Phone))
	if order.Company != "" {
		body.WriteString("\n")
		body.WriteString(i18n.Sprintf(locale, "email.order.company", order.Company))
	}
	if order.Comment != "" {
		body.WriteString("\n")
		body.WriteString(i18n.Sprintf(locale, "email.order.comment", order.Comment))
	}
	body.WriteString("\n\n")
	writeOrderItems(&body, order, locale)
	return subject, body.String()
}

func buildOrderConfirmationContent(order *models.Order, locale string) (string, string) {
	locale = normalizeLocale(locale)
	subject := i18n.Sprintf(locale, "email.order_created.customer_subject", order.OrderNo)
	var body strings.Builder
	body.WriteString(i18n.Sprintf(locale, "email.order_created.customer_intro", order.FirstName, order.OrderNo))
	body.WriteString("\n\n")
	writeOrderItems(&body, order, locale)
	return subject, body.String()
}

func writeOrderItems(body *strings.Builder, order *models.Order, locale string) {
	body.WriteString(i18n.T(locale, "email.order.items"))
	flexible := false
	currency := ""
	for _, item := range order.Items {
		line := cart.DisplayTotal(item.PriceType, item.Price.Decimal, item.PriceMin.Decimal, item.PriceMax.Decimal, item.Currency, item.Quantity)
		body.WriteString(fmt.Sprintf("\n- %s × %d: %s", item.Title, item.Quantity, line))
		if item.PriceType != constants.PriceTypeFixed {
			flexible = true
		} else if currency == "" {
			currency = item.Currency
		}
	}
	body.WriteString("\n\n")
	body.WriteString(i18n.Sprintf(locale, "email.order.total", cart.FormatPrice(order.TotalCost(), currency)))
	if flexible {
		body.WriteString("\n")
		body.WriteString(i18n.T(locale, "email.order.flexible_note"))
	}
}

func buildOrderStatusContent(input OrderStatusEmailInput, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	statusKey := "order.status." + normalizeStatus(input.Status)
	statusLabel := i18n.T(normalized, statusKey)
	if statusLabel == statusKey {
		statusLabel = input.Status
	}
	subject := i18n.Sprintf(normalized, "email.order_status.subject", input.OrderNo, statusLabel)
	if input.Paid != nil {
		if *input.Paid {
			return subject, i18n.Sprintf(normalized, "email.order_status.paid", input.OrderNo)
		}
		return subject, i18n.Sprintf(normalized, "email.order_status.unpaid", input.OrderNo)
	}
	return subject, i18n.Sprintf(normalized, "email.order_status.body", input.OrderNo, statusLabel)
}

func normalizeLocale(locale string) string {
	if normalized := i18n.NormalizeLocale(locale); normalized != "" {
		return normalized
	}
	return i18n.DefaultLocale
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := authenticate(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	if err := authenticate(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, _ string, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := authenticate(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func authenticate(client *smtp.Client, auth smtp.Auth) error {
	if auth == nil {
		return nil
	}
	if ok, _ := client.Extension("AUTH"); !ok {
		return nil
	}
	return client.Auth(auth)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	for _, keyword := range []string{
		"no such recipient",
		"no such user",
		"recipient address rejected",
		"user unknown",
		"unknown mailbox",
		"mailbox unavailable",
	} {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return strings.Contains(message, "550") && strings.Contains(message, "recipient")
}
