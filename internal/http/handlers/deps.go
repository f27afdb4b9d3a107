package handlers

import (
	"samtech/internal/assets"
	"samtech/internal/services"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Catalog  *services.CatalogService
	Events   *services.EventService
	Blogs    *services.BlogService
	Careers  *services.CareerService
	Messages *services.MessageService
	Carts    *services.CartService
	Orders   *services.OrderService
	Auth     *services.AuthService
	Admins   *services.AdminService
}

type Deps struct {
	ProductHandler *ProductHandler
	EventHandler   *EventHandler
	BlogHandler    *BlogHandler
	CareerHandler  *CareerHandler
	MessageHandler *MessageHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AuthHandler    *AuthHandler
	AdminHandler   *AdminHandler
	// MediaHandler is nil unless assets live on local disk.
	MediaHandler *MediaHandler

	auth   *services.AuthService
	admins *services.AdminService
}

// NewDeps builds the handlers. secure marks cookies HTTPS-only; media may be
// nil when assets are served from object storage.
func NewDeps(s Services, media *assets.Local, secure bool) *Deps {
	d := &Deps{
		ProductHandler: &ProductHandler{Catalog: s.Catalog},
		EventHandler:   &EventHandler{Events: s.Events},
		BlogHandler:    &BlogHandler{Blogs: s.Blogs},
		CareerHandler:  &CareerHandler{Careers: s.Careers},
		MessageHandler: &MessageHandler{Messages: s.Messages},
		CartHandler:    &CartHandler{Cart: s.Carts},
		OrderHandler:   &OrderHandler{Order: s.Orders},
		AuthHandler:    &AuthHandler{Auth: s.Auth, Secure: secure},
		AdminHandler:   &AdminHandler{Admins: s.Admins},
		auth:           s.Auth,
		admins:         s.Admins,
	}
	if media != nil {
		d.MediaHandler = &MediaHandler{Store: media}
	}
	return d
}
