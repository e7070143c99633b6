package model

import (
	"time"
)

// Notice kinds mirror the toast variants of the storefront UI.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CartLine is one product of the cart with its accumulated quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Session is the per-visitor state kept by the session store.
type Session struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	Notices   []Notice   `json:"notices,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
