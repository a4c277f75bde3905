// The indexer consumes task change events from RabbitMQ and mirrors them
// into the Elasticsearch task index queried by GET /tasks/search.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taskhive/taskhive/config"
	"github.com/taskhive/taskhive/pkg/events"
	"github.com/taskhive/taskhive/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.RabbitMQURL == "" || cfg.RabbitMQTaskQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 || cfg.ESTasksIndex == "" {
		log.Fatal("Elasticsearch not configured")
	}

	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQTaskQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQTaskQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx := context.Background()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev events.TaskEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if err := apply(ctx, es, cfg.ESTasksIndex, ev); err != nil {
				log.Printf("apply %s for task %d failed: %v", ev.Action, ev.ID, err)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("indexer listening on queue=%s index=%s", cfg.RabbitMQTaskQueue, cfg.ESTasksIndex)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func apply(ctx context.Context, es *elasticsearch.Client, index string, ev events.TaskEvent) error {
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docID := strconv.FormatInt(ev.ID, 10)

	switch ev.Action {
	case events.TaskDeleted:
		req := esapi.DeleteRequest{Index: index, DocumentID: docID}
		res, err := req.Do(c, es)
		if err != nil {
			return err
		}
		defer func() { _ = res.Body.Close() }()
		// deleting an unindexed document is fine
		return nil
	default:
		doc := map[string]any{
			"id":          ev.ID,
			"owner_id":    ev.OwnerID,
			"title":       ev.Title,
			"description": ev.Description,
			"status":      ev.Status,
			"created_at":  ev.CreatedAt.Format(time.RFC3339Nano),
			"updated_at":  ev.UpdatedAt.Format(time.RFC3339Nano),
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		req := esapi.IndexRequest{Index: index, DocumentID: docID, Body: strings.NewReader(string(b)), Refresh: "false"}
		res, err := req.Do(c, es)
		if err != nil {
			return err
		}
		defer func() { _ = res.Body.Close() }()
		if res.IsError() {
			log.Printf("index response error for task %d: %s", ev.ID, res.Status())
		}
		return nil
	}
}
