package domain

import (
	"errors"
	"fmt"
)

// ConfigError indica configuração inválida. É sempre fatal para o setup.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

var (
	ErrOptionsNotObject = &ConfigError{Msg: "options must be an object"}
	ErrWhitelistNotSet  = &ConfigError{Msg: "whitelist must be a set"}
	ErrListsExclusive   = &ConfigError{Msg: "whitelist and blacklist are exclusive"}
	ErrBlacklistNotSet  = &ConfigError{Msg: "blacklist must be a set"}
	ErrNoList           = &ConfigError{Msg: "must provide a whitelist or blacklist"}
	ErrEmptyHeaderName  = &ConfigError{Msg: "trusted header names cannot be empty"}
)

// ErrAddressRestricted é o sinal de negação quando não há handler customizado.
var ErrAddressRestricted = errors.New("address restricted")

// AddressRestrictedError carrega o endereço avaliado para o framework traduzir
// em uma resposta (ex.: 403).
type AddressRestrictedError struct {
	Address string
}

func (e *AddressRestrictedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAddressRestricted, e.Address)
}

func (e *AddressRestrictedError) Unwrap() error { return ErrAddressRestricted }
