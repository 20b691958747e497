package alloc

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/gconf"
)

const packageName = "alloc"

// Configuration declares the price of storage.
type Configuration struct {
	// BaseReserve is charged for every allocated account.
	BaseReserve uint64 `json:"base_reserve"`
	// ByteRate is charged for every byte of the account data.
	ByteRate uint64 `json:"byte_rate"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if c.BaseReserve == 0 && c.ByteRate == 0 {
		return errors.Wrap(errors.ErrEmpty, "storage must not be free")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := b.EncodeFixed64(c.BaseReserve); err != nil {
		return nil, err
	}
	if err := b.EncodeFixed64(c.ByteRate); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	b := proto.NewBuffer(raw)
	base, err := b.DecodeFixed64()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	rate, err := b.DecodeFixed64()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	c.BaseReserve = base
	c.ByteRate = rate
	return lockbox.CheckCanonical(c, raw)
}

// Reserve returns the amount of credits locked by an account of given size.
func (c Configuration) Reserve(size uint32) (uint64, error) {
	perByte := c.ByteRate * uint64(size)
	if size != 0 && perByte/uint64(size) != c.ByteRate {
		return 0, errors.Wrap(errors.ErrOverflow, "byte reserve")
	}
	total := c.BaseReserve + perByte
	if total < perByte {
		return 0, errors.Wrap(errors.ErrOverflow, "reserve")
	}
	return total, nil
}

// SaveConfig validates and stores the storage price.
func SaveConfig(db gconf.Store, c Configuration) error {
	return gconf.Save(db, packageName, &c)
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
