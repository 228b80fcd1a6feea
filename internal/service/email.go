package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(_ context.Context, to, subject, body string) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRentalStarted(ctx context.Context, email, assetName string, deposit uint64) error {
	subject := fmt.Sprintf("Rental started: %s", assetName)
	body := fmt.Sprintf("A rental of %s has started. A deposit of %d was placed into escrow.", assetName, deposit)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendRentalCancelled(ctx context.Context, email, assetName string, refund uint64) error {
	subject := fmt.Sprintf("Rental cancelled: %s", assetName)
	body := fmt.Sprintf("The rental of %s was cancelled. The escrow balance of %d was refunded to the renter. The asset is available again.", assetName, refund)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendReturnRequested(ctx context.Context, email, assetName string) error {
	subject := fmt.Sprintf("Return requested: %s", assetName)
	body := fmt.Sprintf("The renter has requested to return %s. Please confirm the return once the asset is back.", assetName)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendReturnConfirmed(ctx context.Context, email, assetName string) error {
	subject := fmt.Sprintf("Return confirmed: %s", assetName)
	body := fmt.Sprintf("The owner has confirmed the return of %s. The rental can now be completed with the final payment.", assetName)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendDamageReported(ctx context.Context, email, assetName string) error {
	subject := fmt.Sprintf("Damage reported: %s", assetName)
	body := fmt.Sprintf("The owner has reported damage on %s. The insurance compensation will be added to the final payment.", assetName)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendSettlementCompleted(ctx context.Context, email, assetName string, amount uint64) error {
	subject := fmt.Sprintf("Rental settled: %s", assetName)
	body := fmt.Sprintf("The rental of %s has completed. The full escrow balance of %d was paid out to the owner.", assetName, amount)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendOverdueReturnReminder(ctx context.Context, email, assetName string) error {
	subject := fmt.Sprintf("Return overdue: %s", assetName)
	body := fmt.Sprintf("The agreed rental duration for %s has elapsed and no return has been requested. Please request a return to begin settlement.", assetName)
	return s.send(ctx, email, subject, body)
}
