package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID assigns a client-side UUID so rows can be created on engines
// without gen_random_uuid().
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&MenuItem{},
		&Table{},
		&Order{},
		&OrderItem{},
		&PaymentTransaction{},
		&DailySalesRecord{},
		&LedgerSettlement{},
		&RestaurantSettings{},
		&Counter{},
		&OutboxEvent{},
		&OutboxDLQ{},
	}
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error           { ensureID(&m.ID); return nil }
func (t *Table) BeforeCreate(*gorm.DB) error              { ensureID(&t.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error              { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error          { ensureID(&i.ID); return nil }
func (p *PaymentTransaction) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
func (d *DailySalesRecord) BeforeCreate(*gorm.DB) error   { ensureID(&d.ID); return nil }
func (l *LedgerSettlement) BeforeCreate(*gorm.DB) error   { ensureID(&l.ID); return nil }
func (e *OutboxEvent) BeforeCreate(*gorm.DB) error        { ensureID(&e.ID); return nil }
func (d *OutboxDLQ) BeforeCreate(*gorm.DB) error          { ensureID(&d.ID); return nil }
