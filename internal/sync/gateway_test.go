package sync

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gbnetwork/bukkubridge/internal/bukku"
)

func TestFailureReason(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want FailureReason
	}{
		"remote error": {
			err:  &bukku.RemoteError{Message: "rejected", StatusCode: 422},
			want: ReasonRemoteRejection,
		},
		"wrapped remote error": {
			err:  fmt.Errorf("creating contact: %w", &bukku.RemoteError{StatusCode: 500}),
			want: ReasonRemoteRejection,
		},
		"network error": {
			err:  errors.New("dial tcp: connection refused"),
			want: ReasonTransportError,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, failureReason(tc.err))
		})
	}
}
