package providers

import (
	mail "github.com/xhit/go-simple-mail/v2"

	"github.com/invitehub/invitation-server/config"
	"github.com/invitehub/invitation-server/invitations"
	"github.com/invitehub/invitation-server/utils"
)

const inviteTemplate = `<html><body>
<p>You have been invited to join. Follow <a href="{{accept_url}}">this link</a> to accept the invitation.</p>
<p>This invitation was sent to {{email}}. If you were not expecting it, you can ignore this message.</p>
</body></html>`

type SmtpMailer struct {
	client    *mail.SMTPClient
	from      string
	publicUrl string
}

func NewSmtpMailer(client *mail.SMTPClient, cfg *config.Config) invitations.Mailer {
	return &SmtpMailer{
		client:    client,
		from:      cfg.EmailConfig.SmtpUser,
		publicUrl: cfg.PublicUrl,
	}
}

func (m *SmtpMailer) SendInvitation(to, key string) error {
	body := utils.Format(inviteTemplate, map[string]string{
		"{{accept_url}}": m.publicUrl + "/invitations/accept/" + key,
		"{{email}}":      to,
	})

	email := mail.NewMSG()
	email.SetFrom(m.from).AddTo(to).SetSubject("You have been invited").SetBody(mail.TextHTML, body)

	if email.Error != nil {
		return email.Error
	}

	return email.Send(m.client)
}
