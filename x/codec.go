package x

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/errors"
)

// EncodeAccounts writes every address as a length prefixed byte string.
func EncodeAccounts(b *proto.Buffer, accounts ...lockbox.Address) error {
	for _, a := range accounts {
		if err := b.EncodeRawBytes(a); err != nil {
			return err
		}
	}
	return nil
}

// DecodeAccounts reads n length prefixed addresses written by
// EncodeAccounts.
func DecodeAccounts(b *proto.Buffer, n int) ([]lockbox.Address, error) {
	accounts := make([]lockbox.Address, n)
	for i := range accounts {
		raw, err := b.DecodeRawBytes(true)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "account %d: %s", i, err)
		}
		accounts[i] = raw
	}
	return accounts, nil
}

// EncodeWords writes every value as a fixed 8 byte little endian word.
func EncodeWords(b *proto.Buffer, words ...uint64) error {
	for _, w := range words {
		if err := b.EncodeFixed64(w); err != nil {
			return err
		}
	}
	return nil
}

// DecodeWords reads n words written by EncodeWords.
func DecodeWords(b *proto.Buffer, n int) ([]uint64, error) {
	words := make([]uint64, n)
	for i := range words {
		w, err := b.DecodeFixed64()
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "argument %d: %s", i, err)
		}
		words[i] = w
	}
	return words, nil
}

// ValidateAccounts returns an error naming the first malformed address.
func ValidateAccounts(names []string, accounts ...lockbox.Address) error {
	for i, a := range accounts {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(errors.ErrInvalidMsg, "account %s: %s", names[i], err)
		}
	}
	return nil
}
