// Package relaywarden provides the origin-side companion to a warden
// authority. Senders in the origin domain use it to compose relayed
// payloads: an encoded instruction body with the origin trailer appended,
// ready for a forwarder to deliver. Relay implementations use the decode
// helpers to split a payload back into its parts.
//
// Usage:
//
//	payload, err := relaywarden.ExecutePayload(originDomain, sender,
//	    target, 0, calldata)
//	// hand payload to the forwarder for cross-domain delivery
//
// The SDK links directly against internal packages so the wire layouts can
// never drift from what the authority accepts. External users import
// github.com/pivanov/relaywarden/sdk/go/relaywarden.
package relaywarden
