// @title           Questionnaire RAG API
// @version         1.0
// @description     Answers security and compliance questionnaires from an indexed document corpus, with citations, review and evaluation.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

// local stack for the api:
//   redis (job records, chat transcripts)   docker run -p 6379:6379 -d redis
//   qdrant (vector index)                   docker run -p 6333:6333 -p 6334:6334 -v qaVectors:/qdrant/storage qdrant/qdrant
//   postgres + pgvector (optional backend)  docker run -p 5432:5432 -e POSTGRES_PASSWORD=qa -d pgvector/pgvector:pg16
//
// regenerate the swagger docs after changing handler annotations:
//   swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
