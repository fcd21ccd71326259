package database

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := ConnectRedis("redis://"+server.Addr(), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	require.Equal(t, server.Addr(), client.Options().Addr)
}

func TestConnectRedisRejectsEmptyURL(t *testing.T) {
	_, err := ConnectRedis("", zerolog.Nop())
	require.Error(t, err)
}

func TestConnectRedisRejectsMalformedURL(t *testing.T) {
	_, err := ConnectRedis("://not-a-url", zerolog.Nop())
	require.Error(t, err)
}
