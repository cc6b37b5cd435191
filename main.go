package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"calshare/middlewares"
	"calshare/models"
	"calshare/routes"
	"calshare/utils"
)

func main() {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Redis backs the response cache for the public read endpoints.
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	app := models.NewApp()
	inv := utils.NewCacheInvalidator(rdb)

	server := gin.Default()
	server.Use(middlewares.ResponseCache(rdb, 30*time.Second))

	routes.RegisterRoutes(server, app, inv)

	if err := server.Run(addr); err != nil {
		log.Fatal("gin.Run error:", err)
	}
}
