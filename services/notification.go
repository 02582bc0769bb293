package services

import (
	"context"
	"fmt"
	"log"

	"eventmate-backend/config"
	"eventmate-backend/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

// NotificationService fans settlement events out as FCM pushes and
// SendGrid emails. Both transports are optional: a missing API key or
// credentials file just disables that channel. All sends happen on
// detached goroutines from the handlers, so failures never surface to
// the API caller.
type NotificationService struct {
	sendgrid  *sendgrid.Client
	messaging *messaging.Client
}

func NewNotificationService() *NotificationService {
	ns := &NotificationService{}

	if config.AppConfig.SendGridAPIKey != "" {
		ns.sendgrid = sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	} else {
		log.Println("⚠️  SendGrid API key not set, email notifications disabled")
	}

	app, err := firebase.NewApp(context.Background(), nil,
		option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
	if err != nil {
		log.Println("⚠️  Firebase not configured, push notifications disabled:", err)
		return ns
	}
	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Println("⚠️  Firebase messaging unavailable, push notifications disabled:", err)
		return ns
	}
	ns.messaging = client

	return ns
}

func (ns *NotificationService) sendPush(fcmToken, title, body string, data map[string]string) {
	if ns.messaging == nil || fcmToken == "" {
		return
	}

	_, err := ns.messaging.Send(context.Background(), &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", title)
}

func (ns *NotificationService) sendEmail(toEmail, toName, subject, htmlBody string) {
	if ns.sendgrid == nil || toEmail == "" {
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := ns.sendgrid.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// NotifyPaymentClaimed tells the receiver that the payer reported paying
// them back and is waiting on their confirmation.
func (ns *NotificationService) NotifyPaymentClaimed(settlement models.Settlement, payer, receiver models.User, event models.Event) {
	title := fmt.Sprintf("%s says they paid you back", payer.Name)
	body := fmt.Sprintf("%s reported paying you %s in %s. Confirm once you've received it.",
		payer.Name, settlement.Amount.StringFixed(2), event.Name)

	ns.sendPush(receiver.FCMToken, title, body, map[string]string{
		"type":          "payment_claimed",
		"settlement_id": settlement.ID.String(),
		"event_id":      settlement.EventID.String(),
	})

	htmlBody := buildClaimEmailHTML(payer.Name, receiver.Name, settlement.Amount.StringFixed(2), event.Name)
	ns.sendEmail(receiver.Email, receiver.Name, title, htmlBody)
}

// NotifyPaymentSettled tells the payer that the receiver confirmed.
func (ns *NotificationService) NotifyPaymentSettled(settlement models.Settlement, payer, receiver models.User, event models.Event) {
	title := fmt.Sprintf("%s confirmed your payment", receiver.Name)
	body := fmt.Sprintf("Your payment of %s to %s in %s is settled.",
		settlement.Amount.StringFixed(2), receiver.Name, event.Name)

	ns.sendPush(payer.FCMToken, title, body, map[string]string{
		"type":          "payment_settled",
		"settlement_id": settlement.ID.String(),
		"event_id":      settlement.EventID.String(),
	})

	htmlBody := buildSettledEmailHTML(payer.Name, receiver.Name, settlement.Amount.StringFixed(2), event.Name)
	ns.sendEmail(payer.Email, payer.Name, title, htmlBody)
}

func buildClaimEmailHTML(payerName, receiverName, amount, eventName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #4F46E5; margin-top: 0;">💸 Payment reported</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p><strong>%s</strong> reported paying you back <strong>%s</strong> for <strong>%s</strong>.</p>
		<p>Open the app to confirm you received it.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— %s</p>
	</div>
</body>
</html>`, receiverName, payerName, amount, eventName, config.AppConfig.AppName)
}

func buildSettledEmailHTML(payerName, receiverName, amount, eventName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #4F46E5; margin-top: 0;">✅ Payment settled</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p><strong>%s</strong> confirmed receiving your payment of <strong>%s</strong> for <strong>%s</strong>.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— %s</p>
	</div>
</body>
</html>`, payerName, receiverName, amount, eventName, config.AppConfig.AppName)
}
