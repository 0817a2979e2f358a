package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sup/internal/errors"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		want    Identity
		wantErr bool
	}{
		{name: "user and host", literal: "deploy@web1.example.com", want: Identity{User: "deploy", Hostname: "web1.example.com"}},
		{name: "surrounding whitespace", literal: "  root@10.0.0.5 ", want: Identity{User: "root", Hostname: "10.0.0.5"}},
		{name: "splits at first at sign", literal: "a@b@c", want: Identity{User: "a", Hostname: "b@c"}},
		{name: "host with port", literal: "ops@db:2222", want: Identity{User: "ops", Hostname: "db:2222"}},
		{name: "missing at sign", literal: "web1.example.com", wantErr: true},
		{name: "empty user", literal: "@web1", wantErr: true},
		{name: "empty host", literal: "deploy@", wantErr: true},
		{name: "empty literal", literal: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdentity(tt.literal)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrSSH))
				assert.Contains(t, err.Error(), "Invalid host")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentity_String(t *testing.T) {
	id := Identity{User: "deploy", Hostname: "web1"}
	assert.Equal(t, "deploy@web1", id.String())
}
