// handlers/billing.go - Stripe Subscription Billing
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"raterware/middleware"
	"raterware/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"
)

type checkoutRequest struct {
	Plan string `json:"plan"`
}

// InitStripe configures the Stripe client from the environment.
func InitStripe() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("STRIPE_SECRET_KEY not set, billing disabled")
	}
}

// CreateCheckoutSession starts a Stripe Checkout flow for a plan upgrade.
// Enterprise has no self-service price; those go through sales.
// POST /api/billing/checkout
func CreateCheckoutSession(c *fiber.Ctx) error {
	clientID, err := middleware.GetClientID(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	var priceID string
	switch req.Plan {
	case "basic":
		priceID = os.Getenv("STRIPE_PRICE_BASIC")
	case "professional":
		priceID = os.Getenv("STRIPE_PRICE_PROFESSIONAL")
	case "enterprise":
		return c.JSON(fiber.Map{
			"success":       true,
			"contact_sales": true,
			"message":       "Enterprise plans are arranged through our sales team.",
		})
	default:
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Unknown plan"})
	}
	if priceID == "" {
		return c.Status(503).JSON(fiber.Map{"success": false, "error": "Billing not configured for this plan"})
	}

	client, err := clientService.GetClient(clientID)
	if err != nil {
		return serviceError(c, err)
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		CustomerEmail:     stripe.String(client.Email),
		ClientReferenceID: stripe.String(fmt.Sprintf("%d", client.ID)),
		SuccessURL:        stripe.String(baseURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(baseURL + "/billing/cancelled"),
	}

	sess, err := session.New(params)
	if err != nil {
		log.Printf("Failed to create checkout session for client %d: %v", clientID, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to start checkout"})
	}

	return c.JSON(fiber.Map{"success": true, "checkout_url": sess.URL})
}

// CheckoutSuccess acknowledges a completed checkout. The tier change itself
// lands through the webhook, which may arrive after the redirect.
// GET /billing/success
func CheckoutSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Payment received. Your plan will be updated shortly.",
		"session_id": c.Query("session_id"),
	})
}

// CheckoutCancelled acknowledges an abandoned checkout.
// GET /billing/cancelled
func CheckoutCancelled(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Checkout cancelled. Your plan is unchanged.",
	})
}

// StripeWebhook processes subscription lifecycle events. The signature check
// runs before anything else; unsigned payloads are discarded.
// POST /stripe-webhook
func StripeWebhook(c *fiber.Ctx) error {
	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), secret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid signature"})
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Malformed event payload"})
		}
		if err := applySubscription(&sess); err != nil {
			log.Printf("Failed to apply subscription from checkout session %s: %v", sess.ID, err)
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to process event"})
		}

	case "invoice.payment_succeeded":
		// Same handling as checkout: a mid-cycle plan change can surface
		// here without a new checkout session
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Malformed event payload"})
		}
		if err := applyInvoice(&inv); err != nil {
			log.Printf("Failed to apply subscription from invoice %s: %v", inv.ID, err)
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to process event"})
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Malformed event payload"})
		}
		if err := downgradeByCustomer(&sub); err != nil {
			log.Printf("Failed to downgrade after subscription %s ended: %v", sub.ID, err)
		}

	default:
		log.Printf("Ignoring Stripe event type %s", event.Type)
	}

	return c.JSON(fiber.Map{"received": true})
}

// fetchSubscription retrieves a subscription from Stripe. Tests swap it out.
var fetchSubscription = func(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}

func applySubscription(sess *stripe.CheckoutSession) error {
	if sess.Subscription == nil {
		return fmt.Errorf("checkout session %s has no subscription", sess.ID)
	}

	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	return applyTierFromSubscription(email, sess.Subscription.ID)
}

func applyInvoice(inv *stripe.Invoice) error {
	if inv.Subscription == nil {
		return fmt.Errorf("invoice %s has no subscription", inv.ID)
	}

	email := inv.CustomerEmail
	if email == "" && inv.Customer != nil {
		email = inv.Customer.Email
	}
	return applyTierFromSubscription(email, inv.Subscription.ID)
}

// applyTierFromSubscription resolves the subscription's product onto a tier
// and upserts the client by billing email, creating the client when the
// email is not yet registered.
func applyTierFromSubscription(email, subscriptionID string) error {
	sub, err := fetchSubscription(subscriptionID)
	if err != nil {
		return err
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return fmt.Errorf("subscription %s has no items", sub.ID)
	}

	productID := sub.Items.Data[0].Price.Product.ID
	tier, ok := determineTier(productID)
	if !ok {
		return fmt.Errorf("unknown product %s on subscription %s", productID, sub.ID)
	}

	client, err := clientService.SetTierByEmail(email, tier)
	if err != nil {
		return err
	}
	log.Printf("Client %d set to %s", client.ID, tier)

	if auth0Client != nil && auth0Client.Configured() {
		if err := auth0Client.SetTierMetadata(context.Background(), email, int(tier)); err != nil {
			log.Printf("Failed to sync tier to identity provider for %s: %v", email, err)
		}
	}
	return nil
}

func downgradeByCustomer(sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.Email == "" {
		return fmt.Errorf("subscription %s has no customer email", sub.ID)
	}
	client, err := clientService.GetClientByEmail(sub.Customer.Email)
	if err != nil {
		return err
	}
	return clientService.SetTier(client.ID, models.TierFree)
}

// determineTier maps a Stripe product ID onto a subscription tier using the
// configured product IDs.
func determineTier(productID string) (models.Tier, bool) {
	switch productID {
	case os.Getenv("STRIPE_PRODUCT_BASIC"):
		return models.TierBasic, productID != ""
	case os.Getenv("STRIPE_PRODUCT_PROFESSIONAL"):
		return models.TierProfessional, productID != ""
	case os.Getenv("STRIPE_PRODUCT_ENTERPRISE"):
		return models.TierEnterprise, productID != ""
	}
	return models.TierFree, false
}
