// Package bootstrap opens the repositories selected by configuration. The
// server and the operator CLI share it.
package bootstrap

import (
	"context"
	"coursell/backend/internal/config"
	"coursell/backend/internal/repository"
	"coursell/backend/internal/repository/memory"
	"coursell/backend/internal/repository/mongo"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Store bundles one implementation of every repository.
type Store struct {
	Users     repository.UserRepository
	Admins    repository.AdminRepository
	Courses   repository.CourseRepository
	Purchases repository.PurchaseRepository
	Uploads   repository.UploadRepository

	close func()
}

// Close releases the database connection, if any.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects to the configured driver. With the mongo driver the
// indexes are ensured in the background.
func OpenStore(cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("using the in-memory repository driver; data is lost on restart")
		db := memory.NewDB()
		return &Store{
			Users:     memory.NewUserRepository(db),
			Admins:    memory.NewAdminRepository(db),
			Courses:   memory.NewCourseRepository(db),
			Purchases: memory.NewPurchaseRepository(db),
			Uploads:   memory.NewUploadRepository(db),
		}, nil

	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		appDB := client.Database(cfg.Name)
		log.Info("database connection established", zap.String("database", cfg.Name))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB, log)
			log.Info("index creation process completed")
		}()

		return &Store{
			Users:     mongo.NewMongoUserRepository(appDB),
			Admins:    mongo.NewMongoAdminRepository(appDB),
			Courses:   mongo.NewMongoCourseRepository(appDB),
			Purchases: mongo.NewMongoPurchaseRepository(appDB),
			Uploads:   mongo.NewMongoUploadRepository(appDB),
			close: func() {
				log.Info("disconnecting MongoDB")
				if err := mongo.DisconnectDB(client); err != nil {
					log.Error("failed to disconnect MongoDB", zap.Error(err))
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
