package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wanderbook-server/handlers"
	"wanderbook-server/middleware"
	"wanderbook-server/repository/mongodb"
	"wanderbook-server/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is not set")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		logger.Fatal("MONGO_URI environment variable is not set")
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		logger.Fatal("REDIS_ADDR environment variable is not set")
	}

	// Document store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongodb.Connect(ctx, mongoURI)
	if err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}
	userRepo := mongodb.NewUserRepo(mongoClient)
	postRepo := mongodb.NewPostRepo(mongoClient)

	// Session store and cache
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	sessions := services.NewRedisSessionStore(redisClient, services.DefaultSessionTTL)

	// Services
	authService := services.NewAuthService(userRepo, sessions, jwtSecret, logger)
	userService := services.NewUserService(userRepo, logger)
	friendService := services.NewFriendService(userRepo, logger)
	bucketListService := services.NewBucketListService(userRepo, logger)
	postService := services.NewPostService(postRepo, userRepo, redisClient, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, friendService)
	bucketListHandler := handlers.NewBucketListHandler(bucketListService)
	postHandler := handlers.NewPostHandler(postService)
	mapHandler := handlers.NewMapHandler(postService)

	r := mux.NewRouter()

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:8081"}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	authed := middleware.JWTMiddleware(jwtSecret, sessions)

	// Auth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.RegisterUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/login", authHandler.LoginUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/logout", authHandler.LogoutUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/session", authHandler.Session).Methods("GET", "OPTIONS")

	// User routes
	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.Use(authed)
	userRouter.HandleFunc("/me", userHandler.Me).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/me", userHandler.UpdateMe).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/search", userHandler.SearchUsers).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/friends", userHandler.Friends).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/{id}/status", userHandler.FriendStatus).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/send-friend-request", userHandler.SendFriendRequest).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/accept-friend-request", userHandler.AcceptFriendRequest).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/remove-friend", userHandler.RemoveFriend).Methods("POST", "OPTIONS")

	// Bucket list routes
	bucketRouter := r.PathPrefix("/bucketlist").Subrouter()
	bucketRouter.Use(authed)
	bucketRouter.HandleFunc("", bucketListHandler.List).Methods("GET", "OPTIONS")
	bucketRouter.HandleFunc("", bucketListHandler.Create).Methods("POST", "OPTIONS")
	bucketRouter.HandleFunc("/{id}/toggle", bucketListHandler.ToggleComplete).Methods("POST", "OPTIONS")
	bucketRouter.HandleFunc("/{id}", bucketListHandler.Delete).Methods("DELETE", "OPTIONS")

	// Post and map routes
	postRouter := r.PathPrefix("/posts").Subrouter()
	postRouter.Use(authed)
	postRouter.HandleFunc("", postHandler.Create).Methods("POST", "OPTIONS")
	postRouter.HandleFunc("/feed", postHandler.Feed).Methods("GET", "OPTIONS")
	postRouter.HandleFunc("/{id}", postHandler.Get).Methods("GET", "OPTIONS")
	postRouter.HandleFunc("/{id}", postHandler.Delete).Methods("DELETE", "OPTIONS")

	mapRouter := r.PathPrefix("/map").Subrouter()
	mapRouter.Use(authed)
	mapRouter.HandleFunc("/spots", mapHandler.Spots).Methods("GET", "OPTIONS")

	// Image uploads go straight to the CDN; only wired when configured.
	if cloudinaryURL := os.Getenv("CLOUDINARY_URL"); cloudinaryURL != "" {
		preset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
		imageService, err := services.NewImageService(cloudinaryURL, preset, logger)
		if err != nil {
			logger.Fatal("Cloudinary configuration failed", zap.Error(err))
		}
		imageHandler := handlers.NewImageHandler(imageService)
		imageRouter := r.PathPrefix("/images").Subrouter()
		imageRouter.Use(authed)
		imageRouter.HandleFunc("", imageHandler.Upload).Methods("POST", "OPTIONS")
	} else {
		logger.Warn("CLOUDINARY_URL not set, image uploads disabled")
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Info("Server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
