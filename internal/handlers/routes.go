package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Routes wires the entity handlers under an /api router
type Routes struct {
	DB                 *gorm.DB
	AppName            string
	ConcurrentBagFetch bool
	// User guards every entity route, Admin guards /admin
	User  fiber.Handler
	Admin fiber.Handler
}

// Register mounts the entity routes on api
func (r *Routes) Register(api fiber.Router) {
	base := Base{DB: r.DB, AppName: r.AppName}
	profiles := &ProfileHandler{Base: base, ConcurrentBagFetch: r.ConcurrentBagFetch}
	chats := &ChatHandler{Base: base, ConcurrentBagFetch: r.ConcurrentBagFetch}
	messages := &MessageHandler{Base: base}
	posts := &PostHandler{Base: base}
	comments := &CommentHandler{Base: base}
	users := &UserHandler{Base: base}

	p := api.Group("/profiles", r.User)
	p.Post("/", profiles.CreateProfile)
	p.Get("/", profiles.GetAllProfiles)
	// before /:id
	p.Get("/current-user", profiles.GetCurrentUserProfile)
	p.Get("/:id", profiles.GetProfile)
	p.Put("/:id", profiles.UpdateProfile)
	p.Patch("/:id", profiles.PatchProfile)
	p.Delete("/:id", profiles.DeleteProfile)

	c := api.Group("/chats", r.User)
	c.Post("/", chats.CreateChat)
	c.Post("/request-chat-with-profile/:id", chats.RequestChatWithProfile)
	c.Get("/", chats.GetAllChats)
	c.Get("/:id", chats.GetChat)
	c.Put("/:id", chats.UpdateChat)
	c.Patch("/:id/accept", chats.AcceptChat)
	c.Patch("/:id/message", chats.MessageInChat)
	c.Patch("/:id", chats.PatchChat)
	c.Delete("/:id", chats.DeleteChat)

	m := api.Group("/messages", r.User)
	m.Post("/", messages.CreateMessage)
	m.Get("/", messages.GetAllMessages)
	m.Get("/:id", messages.GetMessage)
	m.Put("/:id", messages.UpdateMessage)
	m.Patch("/:id", messages.PatchMessage)
	m.Delete("/:id", messages.DeleteMessage)

	ps := api.Group("/posts", r.User)
	ps.Post("/", posts.CreatePost)
	ps.Get("/", posts.GetAllPosts)
	ps.Get("/:id", posts.GetPost)
	ps.Put("/:id", posts.UpdatePost)
	ps.Patch("/:id/comment", posts.CommentOnPost)
	ps.Patch("/:id", posts.PatchPost)
	ps.Delete("/:id", posts.DeletePost)

	cm := api.Group("/comments", r.User)
	cm.Post("/", comments.CreateComment)
	cm.Get("/", comments.GetAllComments)
	cm.Get("/:id", comments.GetComment)
	cm.Put("/:id", comments.UpdateComment)
	cm.Patch("/:id", comments.UpdateComment)
	cm.Delete("/:id", comments.DeleteComment)

	admin := api.Group("/admin", r.Admin)
	admin.Get("/users", users.GetAllUsers)
}
