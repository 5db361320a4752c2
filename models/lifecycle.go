package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Lifecycle is the soft-delete state shared by catalog and booking entities
type Lifecycle bool

const (
	Active   Lifecycle = true
	Disabled Lifecycle = false
)

func (l Lifecycle) IsActive() bool {
	return bool(l)
}

func (l Lifecycle) String() string {
	if l {
		return "active"
	}
	return "disabled"
}

func (l Lifecycle) Value() (driver.Value, error) {
	return bool(l), nil
}

// Scan accepts the boolean encodings of postgres, mysql and sqlite
func (l *Lifecycle) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = Disabled
	case bool:
		*l = Lifecycle(v)
	case int64:
		*l = v != 0
	case []byte:
		return l.Scan(string(v))
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("estado inválido %q", v)
		}
		*l = Lifecycle(b)
	default:
		return fmt.Errorf("estado inválido: %T", value)
	}
	return nil
}

// LifecycleOf converts a nullable flag, nil meaning Active
func LifecycleOf(flag *bool) Lifecycle {
	if flag == nil {
		return Active
	}
	return Lifecycle(*flag)
}

// Disableable is implemented by every entity that is soft-deleted
type Disableable interface {
	TableName() string
	PrimaryKeyColumn() string
	LifecycleColumn() string
}
