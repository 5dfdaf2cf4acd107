package ledgermetrics

import (
	"strconv"
	"strings"

	"github.com/bcaldwell/ledgermetrics/pkg/hledger"
)

type Label struct {
	Name  string
	Value string
}

// Labels identifies one series. Order is the order the key type declares its
// fields in and is kept stable so rendered label sets can be compared.
type Labels []Label

func (l Labels) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, label := range l {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(label.Name)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(label.Value))
	}
	b.WriteByte('}')
	return b.String()
}

func (l Labels) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, label := range l {
		m[label.Name] = label.Value
	}
	return m
}

// Labeler is implemented by the typed keys each metric groups by.
type Labeler interface {
	comparable
	Labels() Labels
}

// AccountKey groups by account and currency.
type AccountKey struct {
	Account  string
	Currency string
}

func (k AccountKey) Labels() Labels {
	return Labels{{"account", k.Account}, {"currency", k.Currency}}
}

// CurrencyPairKey is the key of an exchange rate from Currency into Target.
type CurrencyPairKey struct {
	Currency string
	Target   string
}

func (k CurrencyPairKey) Labels() Labels {
	return Labels{{"currency", k.Currency}, {"target_currency", k.Target}}
}

type StatusKey struct {
	Status hledger.Status
}

func (k StatusKey) Labels() Labels {
	return Labels{{"status", string(k.Status)}}
}

type UnitKey struct {
	Unit string
}

func (k UnitKey) Labels() Labels {
	return Labels{{"unit", k.Unit}}
}
