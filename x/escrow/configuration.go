package escrow

import (
	"fmt"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/gconf"
)

const packageName = "escrow"

// Configuration is the escrow administration state.
type Configuration struct {
	Metadata *quickex.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is the administrator that can toggle the gates and change the
	// configuration.
	Owner quickex.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/quickex.Address" json:"owner"`
	// PrivacyEnabled gates commitment deposits.
	PrivacyEnabled bool `protobuf:"varint,3,opt,name=privacy_enabled,json=privacyEnabled,proto3" json:"privacy_enabled"`
	// WithdrawEnabled gates withdrawals.
	WithdrawEnabled bool `protobuf:"varint,4,opt,name=withdraw_enabled,json=withdrawEnabled,proto3" json:"withdraw_enabled"`
}

func (c *Configuration) Reset()         { *c = Configuration{} }
func (c *Configuration) String() string { return proto.CompactTextString(c) }
func (*Configuration) ProtoMessage()    {}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

func (c *Configuration) GetOwner() quickex.Address {
	return c.Owner
}

// LoadConfiguration returns the stored configuration.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db gconf.Store, conf *Configuration) error {
	return gconf.Save(db, packageName, conf)
}

// Gate is one of the administrator controlled switches.
type Gate int32

const (
	// PrivacyGate controls deposits.
	PrivacyGate Gate = 1
	// WithdrawGate controls withdrawals.
	WithdrawGate Gate = 2
)

func (g Gate) String() string {
	switch g {
	case PrivacyGate:
		return "privacy"
	case WithdrawGate:
		return "withdraw"
	default:
		return fmt.Sprintf("Gate(%d)", int32(g))
	}
}

// Validate returns an error for an unknown gate.
func (g Gate) Validate() error {
	if g != PrivacyGate && g != WithdrawGate {
		return errors.Wrapf(errors.ErrInput, "unknown gate %d", int32(g))
	}
	return nil
}

// ParseGate returns the gate of given name.
func ParseGate(name string) (Gate, error) {
	switch strings.ToLower(name) {
	case "privacy", "deposit":
		return PrivacyGate, nil
	case "withdraw":
		return WithdrawGate, nil
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unknown gate %q", name)
	}
}

// GateChecker tells if deposits and withdrawals are allowed.
type GateChecker interface {
	IsDepositEnabled(db quickex.ReadOnlyKVStore) (bool, error)
	IsWithdrawEnabled(db quickex.ReadOnlyKVStore) (bool, error)
}

// ConfigGates reads the gates from the stored configuration. Without a
// configuration both gates are closed.
type ConfigGates struct{}

var _ GateChecker = ConfigGates{}

func (ConfigGates) IsDepositEnabled(db quickex.ReadOnlyKVStore) (bool, error) {
	conf, err := loadOrNil(db)
	if err != nil || conf == nil {
		return false, err
	}
	return conf.PrivacyEnabled, nil
}

func (ConfigGates) IsWithdrawEnabled(db quickex.ReadOnlyKVStore) (bool, error) {
	conf, err := loadOrNil(db)
	if err != nil || conf == nil {
		return false, err
	}
	return conf.WithdrawEnabled, nil
}

func loadOrNil(db quickex.ReadOnlyKVStore) (*Configuration, error) {
	conf, err := LoadConfiguration(db)
	switch {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
