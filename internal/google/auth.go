package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// TokenSource builds an OAuth2 token source from a service-account key.
// If subject is non-empty, the returned source impersonates that user
// through domain-wide delegation.
func TokenSource(ctx context.Context, serviceAccountKey []byte, subject string) (oauth2.TokenSource, error) {
	if len(serviceAccountKey) == 0 {
		return nil, fmt.Errorf("service account key is required")
	}

	if subject != "" {
		conf, err := google.JWTConfigFromJSON(serviceAccountKey, calendar.CalendarReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account key: %w", err)
		}
		conf.Subject = subject
		return conf.TokenSource(ctx), nil
	}

	creds, err := google.CredentialsFromJSON(ctx, serviceAccountKey, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	return creds.TokenSource, nil
}
