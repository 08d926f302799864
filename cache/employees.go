// Package cache fronts employee lookups with Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/adonese/hrportal/hr_fields"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "hrportal:employee:"

// EmployeeGetter is satisfied by *store.Store.
type EmployeeGetter interface {
	GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error)
}

// Employees is a read-through cache. Redis failures are logged and the
// lookup falls through to Next; a nil Client disables caching entirely.
type Employees struct {
	Client *redis.Client
	Next   EmployeeGetter
	TTL    time.Duration
	Logger *logrus.Logger
}

func (e *Employees) GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error) {
	if e.Client == nil {
		return e.Next.GetEmployee(ctx, id)
	}

	key := keyPrefix + id
	raw, err := e.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var emp hr_fields.Employee
		jerr := json.Unmarshal(raw, &emp)
		if jerr == nil {
			return &emp, nil
		}
		e.warn(id, "decode cached employee", jerr)
	case !errors.Is(err, redis.Nil):
		e.warn(id, "redis get", err)
	}

	emp, err := e.Next.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, jerr := json.Marshal(emp); jerr == nil {
		if serr := e.Client.Set(ctx, key, payload, e.TTL).Err(); serr != nil {
			e.warn(id, "redis set", serr)
		}
	}
	return emp, nil
}

// Forget drops a cached employee, used after writes.
func (e *Employees) Forget(ctx context.Context, id string) {
	if e.Client == nil {
		return
	}
	if err := e.Client.Del(ctx, keyPrefix+id).Err(); err != nil {
		e.warn(id, "redis del", err)
	}
}

func (e *Employees) warn(id, op string, err error) {
	if e.Logger == nil || err == nil {
		return
	}
	e.Logger.WithFields(logrus.Fields{
		"employee_id": id,
		"op":          op,
		"error":       err.Error(),
	}).Warn("employee cache")
}
