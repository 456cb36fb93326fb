package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/hhgops/ackbot/internal/identity"
)

// Reply wording is part of the product surface — HR links people to these
// messages — so keep changes deliberate.

func nameNotFoundReply(nf *identity.NotFoundError, version, org string) string {
	if len(nf.Candidates) == 0 {
		return fmt.Sprintf(
			"⚠️ Name not found: %q\n\n"+
				"Please use your full name exactly as it appears in our system.\n\n"+
				"Contact your manager if you need help.",
			nf.ClaimedName,
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Name not found: %q\n\nDid you mean one of these?\n", nf.ClaimedName)
	for _, c := range nf.Candidates {
		fmt.Fprintf(&b, "• %s\n", c.FullName)
	}
	fmt.Fprintf(&b,
		"\nPlease resend using your exact name as shown above.\n\n"+
			"Example:\nI, %s, acknowledge and agree to the %s Employee Handbook %s",
		nf.Candidates[0].FullName, org, version,
	)
	return b.String()
}

func alreadyAcknowledgedReply(fullName, version string) string {
	return fmt.Sprintf("✓ %s, you've already acknowledged handbook %s.", fullName, version)
}

func recordedReply(fullName, version, org string, at time.Time) string {
	return fmt.Sprintf(
		"✓ Recorded: %s acknowledged %s Employee Handbook %s\nTimestamp: %s",
		fullName, org, version, at.Format("2006-01-02 15:04:05 UTC"),
	)
}

func internalErrorReply() string {
	return "⚠️ Error recording acknowledgment. Please try again or contact admin."
}
