package redis

import (
	"context"
	"slices"
	"testing"
)

func TestConfigAddrs(t *testing.T) {
	cases := map[string][]string{
		"localhost:6379":             {"localhost:6379"},
		"a:26379, b:26379 ,,c:26379": {"a:26379", "b:26379", "c:26379"},
		"  ":                         nil,
	}
	for in, want := range cases {
		if got := (Config{Addr: in}).addrs(); !slices.Equal(got, want) {
			t.Fatalf("addrs(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConnectWithoutAddress(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}); err == nil {
		t.Fatalf("expected an error without an address")
	}
}
