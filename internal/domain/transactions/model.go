package transactions

import "time"

type Type string

const (
	TypeInbound  Type = "inbound"
	TypeOutbound Type = "outbound"
)

type Transaction struct {
	ID           int64
	MaterialName string
	Type         Type
	QtyG         float64
	CreatedAt    time.Time
	Memo         string
}

// Delta is the signed stock change this transaction carries.
func (t Transaction) Delta() float64 {
	if t.Type == TypeOutbound {
		return -t.QtyG
	}
	return t.QtyG
}
