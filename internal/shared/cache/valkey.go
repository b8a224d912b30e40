package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Valkey implements Cache on a Valkey (or Redis) server.
type Valkey struct {
	client valkey.Client
}

// NewValkey connects to addr and verifies the connection with PING.
func NewValkey(ctx context.Context, addr, password string) (*Valkey, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}
	return &Valkey{client: client}, nil
}

func (v *Valkey) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return data, true, nil
}

func (v *Valkey) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var err error
	if secs := int64(ttl / time.Second); secs > 0 {
		err = v.client.Do(ctx, v.client.B().Set().Key(key).Value(valkey.BinaryString(value)).ExSeconds(secs).Build()).Error()
	} else {
		err = v.client.Do(ctx, v.client.B().Set().Key(key).Value(valkey.BinaryString(value)).Build()).Error()
	}
	if err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

func (v *Valkey) Delete(ctx context.Context, key string) error {
	if err := v.client.Do(ctx, v.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("valkey del %s: %w", key, err)
	}
	return nil
}

func (v *Valkey) Close() {
	v.client.Close()
}

var _ Cache = (*Valkey)(nil)
