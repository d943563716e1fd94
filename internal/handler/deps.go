package handler

import (
	"hvchat/internal/app/chat"
	"hvchat/internal/app/db"
	"hvchat/internal/app/storage"
	"hvchat/internal/configs"
)

// AppDeps carries the shared collaborators the handlers need.
type AppDeps struct {
	Hub     *chat.Hub
	Config  *configs.AppConfig
	Store   *db.Store
	Storage storage.StorageService
}
