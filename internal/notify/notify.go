package notify

import (
	"fmt"
	"net/smtp"

	"github.com/user/kritika/internal/model"
	"go.uber.org/zap"
)

// Notifier 确认码通知接口。发送失败不阻断注册流程，调用方自行决定是否上报
type Notifier interface {
	SendCode(user *model.User, code string) error
}

// SMTPNotifier 通过 SMTP 发送确认码邮件
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPNotifier 创建 SMTP 通知器
func NewSMTPNotifier(host string, port int, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendCode 发送确认码邮件
func (n *SMTPNotifier) SendCode(user *model.User, code string) error {
	subject := "注册确认码"
	body := fmt.Sprintf("你好 %s，\r\n\r\n你的注册确认码是：%s\r\n\r\n如果这不是你本人的操作，请忽略本邮件。", user.Username, code)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		n.from, user.Email, subject, body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	var auth smtp.Auth
	if n.username != "" && n.password != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := smtp.SendMail(addr, auth, n.from, []string{user.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("发送确认码邮件失败: %w", err)
	}
	return nil
}

// LogNotifier 开发环境通知器，只把确认码写进日志
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendCode 记录确认码
func (n *LogNotifier) SendCode(user *model.User, code string) error {
	n.logger.Info("确认码已生成",
		zap.String("username", user.Username),
		zap.String("email", user.Email),
		zap.String("code", code),
	)
	return nil
}
