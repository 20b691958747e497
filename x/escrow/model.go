package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
	"github.com/iov-one/lockbox/orm"
	"github.com/iov-one/lockbox/x/asset"
)

// ProgramID identifies the escrow program. Escrow addresses are derived
// under it.
var ProgramID = lockbox.NewAddress([]byte("lockbox/escrow"))

// EscrowSize is the length of a serialized escrow record.
const EscrowSize = 8 + 8 + 3*lockbox.AddressLength + 8 + 8 + 8 + 1

// discriminator is the first eight bytes of every serialized record.
var discriminator = func() []byte {
	h := sha256.Sum256([]byte("account:Escrow"))
	return h[:8]
}()

// Escrow holds the terms of a single deal.
type Escrow struct {
	Seed          uint64
	Maker         lockbox.Address
	DepositAsset  lockbox.Address
	ReturnAsset   lockbox.Address
	ReceiveAmount uint64
	// LockPeriod is the number of ticks since StartTime before the deal
	// can be taken.
	LockPeriod uint64
	StartTime  lockbox.Tick
	// Bump completes the derivation of the escrow address.
	Bump uint8
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := e.DepositAsset.Validate(); err != nil {
		return errors.Wrap(err, "deposit asset")
	}
	if err := e.ReturnAsset.Validate(); err != nil {
		return errors.Wrap(err, "return asset")
	}
	if e.DepositAsset.Equals(e.ReturnAsset) {
		return errors.Wrap(errors.ErrInvalidModel, "deposit and return asset must differ")
	}
	if e.ReceiveAmount == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "zero receive amount")
	}
	return nil
}

// Marshal writes the fixed little endian layout of the record.
func (e *Escrow) Marshal() ([]byte, error) {
	if len(e.Maker) != lockbox.AddressLength || len(e.DepositAsset) != lockbox.AddressLength || len(e.ReturnAsset) != lockbox.AddressLength {
		return nil, errors.Wrap(errors.ErrInvalidModel, "malformed address")
	}
	raw := make([]byte, 0, EscrowSize)
	raw = append(raw, discriminator...)
	raw = appendUint64(raw, e.Seed)
	raw = append(raw, e.Maker...)
	raw = append(raw, e.DepositAsset...)
	raw = append(raw, e.ReturnAsset...)
	raw = appendUint64(raw, e.ReceiveAmount)
	raw = appendUint64(raw, e.LockPeriod)
	raw = appendUint64(raw, uint64(e.StartTime))
	raw = append(raw, e.Bump)
	return raw, nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != EscrowSize {
		return errors.Wrapf(errors.ErrInvalidState, "escrow record must be %d bytes, got %d", EscrowSize, len(raw))
	}
	if !bytes.Equal(raw[:8], discriminator) {
		return errors.Wrap(errors.ErrInvalidType, "not an escrow record")
	}
	r := raw[8:]
	next := func(n int) []byte {
		chunk := append([]byte(nil), r[:n]...)
		r = r[n:]
		return chunk
	}
	e.Seed = binary.LittleEndian.Uint64(next(8))
	e.Maker = next(lockbox.AddressLength)
	e.DepositAsset = next(lockbox.AddressLength)
	e.ReturnAsset = next(lockbox.AddressLength)
	e.ReceiveAmount = binary.LittleEndian.Uint64(next(8))
	e.LockPeriod = binary.LittleEndian.Uint64(next(8))
	e.StartTime = lockbox.Tick(binary.LittleEndian.Uint64(next(8)))
	e.Bump = r[0]
	return nil
}

// Unlocked returns true if the lock period elapsed at the time given by
// the clock.
func (e *Escrow) Unlocked(c lockbox.Clock) bool {
	return lockbox.Elapsed(c, e.StartTime, e.LockPeriod)
}

// UnlockTick returns the first tick at which the deal can be taken. A lock
// reaching past the last tick reports math.MaxUint64.
func (e *Escrow) UnlockTick() lockbox.Tick {
	if e.LockPeriod > math.MaxUint64-uint64(e.StartTime) {
		return math.MaxUint64
	}
	return e.StartTime + lockbox.Tick(e.LockPeriod)
}

func appendUint64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

func escrowSeeds(maker lockbox.Address, seed uint64) [][]byte {
	s := make([]byte, 8)
	binary.LittleEndian.PutUint64(s, seed)
	return [][]byte{[]byte("escrow"), maker, s}
}

// EscrowAddress returns the address of the deal made by maker with given
// seed, together with the bump completing its derivation.
func EscrowAddress(maker lockbox.Address, seed uint64) (lockbox.Address, uint8, error) {
	return lockbox.DeriveAddress(ProgramID, escrowSeeds(maker, seed)...)
}

// VaultAddress returns the address of the vault of the escrow holding
// given deposit asset.
func VaultAddress(escrow, depositAsset lockbox.Address) (lockbox.Address, error) {
	return asset.HoldingAddress(escrow, depositAsset)
}

// Bucket stores escrow records by their address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for managing escrows.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("escrows", &Escrow{}),
	}
}

// Get loads the escrow stored at given address.
func (b Bucket) Get(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*Escrow, error) {
	var e Escrow
	if err := b.One(db, addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr lockbox.QueryRouter) {
	NewBucket().Register("", qr)
}
