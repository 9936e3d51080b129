package billing

import (
	"fmt"
	"math"
	"net/http"
	"os"

	"bible-study-app/database"
	"bible-study-app/internal/domain/billing"
	"bible-study-app/internal/domain/studies"
	"bible-study-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	customer "github.com/stripe/stripe-go/v75/customer"
)

// amountCents converts a dollar price to Stripe cents. Rounded, not
// truncated: 19.99*100 is 1998.99... in float64.
func amountCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// ------------------------------
// POST /studies/:id/checkout (one-time purchase of a premium study)
// ------------------------------
func CreateStudyCheckout(c *gin.Context) {
	studyID := c.Param("id")

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var study studies.Study
	if err := database.DB.First(&study, "id = ?", studyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Study not found"})
		return
	}
	if !study.IsPublished || !study.IsPremium || study.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Study is not available for purchase"})
		return
	}

	alreadyOwned, err := billing.HasAccess(database.DB, userID, study.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if alreadyOwned {
		c.JSON(http.StatusConflict, gin.H{"error": "Study already purchased"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// ensure stripe customer
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		cus, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
				"app_env": os.Getenv("APP_ENV"),
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
			return
		}

		if err := database.DB.Model(&users.User{}).
			Where("id = ?", user.ID).
			Update("stripe_customer_id", cus.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
			return
		}

		user.StripeCustomerID = stripe.String(cus.ID)
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(appURL + "/studies/" + study.ID),
		CancelURL:  stripe.String(appURL + "/studies/" + study.ID + "?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:   stripe.String(*user.StripeCustomerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amountCents(study.Price)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(study.Title),
						Metadata: map[string]string{
							"study_id": study.ID,
						},
					},
				},
				Quantity: stripe.Int64(1),
			},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),
		Metadata: map[string]string{
			"user_id":  fmt.Sprint(user.ID),
			"study_id": study.ID,
		},
	}

	session, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": session.URL})
}

// ------------------------------
// GET /purchases
// ------------------------------
func GetPurchaseHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var purchases []billing.Purchase
	if err := database.DB.
		Preload("Study").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	c.JSON(http.StatusOK, purchases)
}
