package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in redis so more than one api
// instance can resolve them. Expiry is delegated to redis key TTLs; the
// by-token index is a second key written with the same TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore connects to redis at the supplied address &
// verifies the connection with a ping.
func NewRedisSessionStore(addr, password string) (*RedisSessionStore, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrapf(err, "error connecting to redis at %v", addr)
	}

	return &RedisSessionStore{client: client}, nil
}

func sessionKey(id string) string {
	return "goidc:session:" + id
}

func tokenKey(token string) string {
	return "goidc:token:" + token
}

// Put stores the session & its token index entry, both expiring with
// the session itself
func (r *RedisSessionStore) Put(ctx context.Context, sess Session) error {

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.Errorf("session %v expiry must be in the future", sess.Id)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "error marshalling session")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sess.Id), data, ttl)
	pipe.Set(ctx, tokenKey(sess.AccessToken), sess.Id, ttl)
	_, err = pipe.Exec(ctx)
	return errors.Wrapf(err, "error storing session %v", sess.Id)
}

// Get returns the session for the supplied id, or (nil, nil) once redis
// has expired the key
func (r *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {

	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching session %v", id)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling session")
	}

	// redis lazily expires keys; don't serve a session the key TTL
	// hasn't caught up with yet
	if sess.Expired() {
		_ = r.Delete(ctx, id)
		return nil, nil
	}
	return &sess, nil
}

// GetByToken resolves the supplied access token through the index key
func (r *RedisSessionStore) GetByToken(ctx context.Context, token string) (*Session, error) {

	id, err := r.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error fetching session id by token")
	}
	return r.Get(ctx, id)
}

// Delete removes the session & its token index entry
func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {

	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err != nil && err != redis.Nil {
		return errors.Wrapf(err, "error fetching session %v for delete", id)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	var sess Session
	if err == nil && json.Unmarshal([]byte(val), &sess) == nil {
		pipe.Del(ctx, tokenKey(sess.AccessToken))
	}
	_, err = pipe.Exec(ctx)
	return errors.Wrapf(err, "error deleting session %v", id)
}

// Sweep is a no-op; redis expires session keys natively
func (r *RedisSessionStore) Sweep(_ context.Context) (int, error) {
	return 0, nil
}
