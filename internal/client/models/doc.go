// Package models defines the client-side data model of the VOAT Network
// marketplace: account records and their reconciliation rules, wishlist,
// bookings, orders, portfolio submissions and project showcases.
package models
