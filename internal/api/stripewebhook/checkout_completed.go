package stripewebhooks

import (
	"errors"
	"fmt"
	"strconv"

	"bible-study-app/database"
	"bible-study-app/internal/domain/billing"
	"bible-study-app/internal/domain/studies"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"gorm.io/gorm"
)

func handleCheckoutSessionCompleted(c *gin.Context, session *stripe.CheckoutSession) error {
	// Fetch the full session so payment status and metadata are authoritative
	fullSession, err := checkoutsession.Get(session.ID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Expand: []*string{
				stripe.String("customer"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch expanded checkout session: %w", err)
	}

	if fullSession.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return fmt.Errorf("checkout session %s not paid (status %s)", fullSession.ID, fullSession.PaymentStatus)
	}

	userID, err := userIDFromSessionOrRef(fullSession)
	if err != nil {
		return err
	}

	studyID := ""
	if fullSession.Metadata != nil {
		studyID = fullSession.Metadata["study_id"]
	}
	if studyID == "" {
		return errors.New("checkout session missing study_id metadata")
	}

	var study studies.Study
	if err := database.DB.First(&study, "id = ?", studyID).Error; err != nil {
		return fmt.Errorf("study not found for checkout session: %w", err)
	}

	// Idempotency: Stripe retries webhooks, one purchase per session.
	var existing billing.Purchase
	err = database.DB.Where("stripe_session_id = ?", fullSession.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing purchase: %w", err)
	}

	purchase := billing.Purchase{
		UserID:          userID,
		StudyID:         study.ID,
		StripeSessionID: fullSession.ID,
		AmountUSD:       float64(fullSession.AmountTotal) / 100.0,
		Status:          "paid",
	}
	if err := database.DB.Create(&purchase).Error; err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	return nil
}

func userIDFromSessionOrRef(session *stripe.CheckoutSession) (uint, error) {
	userIDStr := ""
	if session.Metadata != nil {
		userIDStr = session.Metadata["user_id"]
	}
	if userIDStr == "" {
		userIDStr = session.ClientReferenceID
	}
	if userIDStr == "" {
		return 0, errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}

	uid64, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user_id %q: %w", userIDStr, err)
	}
	return uint(uid64), nil
}
