// Package payment models wallet transactions driven by Razorpay webhook events.
//
// A WalletTransaction is keyed by the Razorpay order id. Webhook events move it
// from pending to completed or failed; a completed transaction never regresses.
package payment
