package redis

import (
	"testing"

	"github.com/zaidansari/attarmart-backend/pkg/config"
)

func TestNamespacedKeys(t *testing.T) {
	t.Parallel()

	c := &Client{}
	cases := []struct {
		got  string
		want string
	}{
		{c.GuestCartKey("guest-1"), "am:guest_cart:guest-1"},
		{c.RecentlyViewedKey("user:abc"), "am:recently_viewed:user:abc"},
		{c.RateLimitKey("rl:ip:login:127.0.0.1"), "am:rate_limit:rl:ip:login:127.0.0.1"},
		{c.SessionKey("sess-1"), "am:session:sess-1"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if got := c.buildKey("guest_cart", ""); got != "am:guest_cart" {
		t.Fatalf("got %q", got)
	}
	if got := c.buildKey(); got != "am" {
		t.Fatalf("got %q", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected an error without url or address")
	}
}
