package model

import "time"

// Admin is a shop operator. Email and phone are unique across admins.
type Admin struct {
	ID               string    `json:"id" bson:"_id"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email" bson:"email"`
	Phone            string    `json:"phone" bson:"phone"`
	Password         string    `json:"password,omitempty" bson:"password"`
	Description      string    `json:"description" bson:"description"`
	CertificatePIRT  string    `json:"certificatePIRT" bson:"certificatePIRT"`
	CertificateHalal string    `json:"certificateHalal" bson:"certificateHalal"`
	IsActive         bool      `json:"isActive" bson:"isActive"`
	IsOpen           bool      `json:"isOpen" bson:"isOpen"`
	Address          string    `json:"address" bson:"address"`
	Rated            string    `json:"rated" bson:"rated"`
	Rating           []float64 `json:"rating" bson:"rating"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

const (
	DefaultDescription = "Deskripsi singkat toko."
	DefaultAddress     = " "
	DefaultRated       = "3"
	DefaultRating      = 3
)

// Product belongs to the admin referenced by AdminID. Admin holds the
// owner's display name at creation time.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Picture     string    `json:"picture" bson:"picture"`
	Available   bool      `json:"available" bson:"available"`
	AdminID     string    `json:"adminId" bson:"adminId"`
	Admin       string    `json:"admin" bson:"admin"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// User is a storefront customer.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Password  string    `json:"password,omitempty" bson:"password"`
	Address   string    `json:"address" bson:"address"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderProcess OrderStatus = "process"
	OrderDone    OrderStatus = "done"
	OrderCancel  OrderStatus = "cancel"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcess, OrderDone, OrderCancel:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Order is placed by a User against a single Admin's shop.
type Order struct {
	ID        string      `json:"id" bson:"_id"`
	UserID    string      `json:"userId" bson:"userId"`
	User      string      `json:"user" bson:"user"`
	AdminID   string      `json:"adminId" bson:"adminId"`
	Products  []OrderItem `json:"products" bson:"products"`
	Total     float64     `json:"total" bson:"total"`
	Status    OrderStatus `json:"status" bson:"status"`
	Note      string      `json:"note" bson:"note"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}
