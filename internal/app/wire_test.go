package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	protocol "senderkey/internal/protocol/group"
)

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"file default", Config{Home: "h"}, true},
		{"leveldb", Config{Home: "h", Backend: BackendLevelDB}, true},
		{"redis needs address", Config{Home: "h", Backend: BackendRedis}, false},
		{"redis", Config{Home: "h", Backend: BackendRedis, RedisAddr: "localhost:6379"}, true},
		{"no home", Config{}, false},
		{"unknown backend", Config{Home: "h", Backend: "sqlite"}, false},
		{"negative cap", Config{Home: "h", MaxSessionStates: -1}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestConfigPolicy(t *testing.T) {
	p := Config{MaxMessageSkip: 10, MaxSessionStates: 2}.Policy()
	require.Equal(t, protocol.Policy{MaxMessageSkip: 10, MaxSessionStates: 2}, p)
}

func TestNewWireEndToEnd(t *testing.T) {
	for _, backend := range []string{BackendFile, BackendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			aliceWire, err := NewWire(Config{Home: t.TempDir(), Backend: backend})
			require.NoError(t, err)
			defer aliceWire.Close()
			bobWire, err := NewWire(Config{Home: t.TempDir(), Backend: backend})
			require.NoError(t, err)
			defer bobWire.Close()

			alice := New(aliceWire.Identity, aliceWire.Groups)
			bob := New(bobWire.Identity, bobWire.Groups)

			dist, err := alice.Groups.CreateSenderKey(ctx, "g", "alice")
			require.NoError(t, err)
			require.NoError(t, bob.Groups.ProcessDistributionMessage(ctx, "g", "alice", dist))

			msg, err := alice.Groups.Encrypt(ctx, "g", "alice", []byte("hi"))
			require.NoError(t, err)
			pt, err := bob.Groups.Decrypt(ctx, "g", "alice", msg)
			require.NoError(t, err)
			require.Equal(t, "hi", string(pt))
		})
	}
}
