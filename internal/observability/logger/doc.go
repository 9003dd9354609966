// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context scoping: cada request lleva su propio logger "scoped" con campos
//     adicionales (request_id, user_id, collection...) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//
// # Usage
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En controllers/providers (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("artwork created", logger.ResourceID(id))
package logger
