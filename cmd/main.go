package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/valenoirs/backoffice/cmd/api"
	"github.com/valenoirs/backoffice/cmd/handler"
	"github.com/valenoirs/backoffice/cmd/internal/db"
	"github.com/valenoirs/backoffice/cmd/internal/env"
	"github.com/valenoirs/backoffice/cmd/internal/logger"
	"github.com/valenoirs/backoffice/cmd/model"
	"github.com/valenoirs/backoffice/cmd/repository"
	"github.com/valenoirs/backoffice/cmd/service"
	"github.com/valenoirs/backoffice/cmd/session"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type stores struct {
	admins   repository.Collection[model.Admin]
	products repository.Collection[model.Product]
	users    repository.Collection[model.User]
	orders   repository.Collection[model.Order]
	close    func()
}

func main() {
	env := env.Start()

	zlog, err := logger.New(env.AppEnv)
	if err != nil {
		log.Fatalf("error building logger: %v", err)
	}
	defer zlog.Sync()
	zlog.Info("starting server", zap.String("env", env.AppEnv), zap.String("store", env.StoreDriver))

	st, err := openStores(env, zlog)
	if err != nil {
		zlog.Fatal("error opening store", zap.Error(err))
	}
	defer st.close()

	if err := os.MkdirAll(env.UploadDir, 0755); err != nil {
		zlog.Fatal("error creating upload directory", zap.Error(err))
	}

	adminRepo := repository.NewAdminRepo(st.admins)
	productRepo := repository.NewProductRepo(st.products)
	userRepo := repository.NewUserRepo(st.users)
	orderRepo := repository.NewOrderRepo(st.orders)

	adminService := service.NewAdminService(adminRepo)
	productService := service.NewProductService(productRepo)
	userService := service.NewUserService(userRepo)
	orderService := service.NewOrderService(orderRepo, userRepo)

	rootAuth, err := service.NewRootAuth(env.RootUsername, env.RootPassword)
	if err != nil {
		zlog.Fatal("error preparing root credentials", zap.Error(err))
	}
	sessions := session.NewManager(env.SessionSecret, env.SessionLifetime)

	router := api.NewRouter(env, zlog, sessions,
		handler.NewViewHandler(sessions, zlog),
		handler.NewAdminHandler(adminService, sessions, zlog, env.UploadDir),
		handler.NewProductHandler(productService, sessions, zlog, env.UploadDir),
		handler.NewRootHandler(rootAuth, adminService, sessions, zlog),
		handler.NewUserHandler(userService, zlog),
		handler.NewOrderHandler(orderService, sessions, zlog),
	)

	if err := api.NewApi(env.Addr, zlog).Run(router); err != nil {
		zlog.Fatal("error in server", zap.Error(err))
	}
	zlog.Info("server stopped")
}

func openStores(cfg *env.Env, zlog *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case "mongo":
		ctx := context.Background()
		client, database, err := db.GetConnectionMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		zlog.Info("mongo connection successful", zap.String("db", cfg.MongoDB))
		if err := repository.EnsureMongoIndexes(ctx, database); err != nil {
			return nil, err
		}
		return mongoStores(client, database), nil

	case "postgres":
		conn, err := db.GetConnectionPostgres(db.DBConfig{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPass,
			Name:     cfg.DBName,
			SSLMode:  cfg.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		zlog.Info("postgres connection successful", zap.String("db", cfg.DBName))
		if err := db.ApplyMigrations(context.Background(), conn, cfg.MigrationPath); err != nil {
			conn.Close()
			return nil, err
		}
		zlog.Info("migrations applied successfully")
		return postgresStores(conn), nil

	case "memory":
		zlog.Warn("using in-memory store, data is lost on restart")
		return &stores{
			admins:   repository.NewMemoryCollection[model.Admin](repository.Admins),
			products: repository.NewMemoryCollection[model.Product](repository.Products),
			users:    repository.NewMemoryCollection[model.User](repository.Users),
			orders:   repository.NewMemoryCollection[model.Order](repository.Orders),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func mongoStores(client *mongo.Client, database *mongo.Database) *stores {
	return &stores{
		admins:   repository.NewMongoCollection[model.Admin](database, repository.Admins),
		products: repository.NewMongoCollection[model.Product](database, repository.Products),
		users:    repository.NewMongoCollection[model.User](database, repository.Users),
		orders:   repository.NewMongoCollection[model.Order](database, repository.Orders),
		close:    func() { _ = client.Disconnect(context.Background()) },
	}
}

func postgresStores(conn *sql.DB) *stores {
	return &stores{
		admins:   repository.NewPostgresCollection[model.Admin](conn, repository.Admins),
		products: repository.NewPostgresCollection[model.Product](conn, repository.Products),
		users:    repository.NewPostgresCollection[model.User](conn, repository.Users),
		orders:   repository.NewPostgresCollection[model.Order](conn, repository.Orders),
		close:    func() { conn.Close() },
	}
}
