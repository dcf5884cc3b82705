package main

import (
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-splitter-be/src/shared/config/dev"
	"github.com/veedubyou/stem-splitter-be/src/shared/config/envvar"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/start"
)

// manual poke tool: pushes a start message for an existing job onto the dev
// queue so a running worker picks it up
func main() {
	rabbitURL := envvar.MustGet(envvar.RABBITMQ_URL)

	conn, err := amqp091.Dial(rabbitURL)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	rabbitChannel, err := conn.Channel()
	if err != nil {
		panic(err)
	}
	defer rabbitChannel.Close()

	queue, err := rabbitChannel.QueueDeclare(
		dev.RabbitMQQueueName,
		true,
		false,
		false,
		false,
		nil,
	)

	if err != nil {
		panic(err)
	}

	startJobParams := start.JobParams{
		JobIdentifier: job_message.JobIdentifier{
			JobID: "ad2fca6d-8c32-4030-86c0-8b5339347253",
		},
	}

	jobBody, err := json.Marshal(startJobParams)

	if err != nil {
		panic(err)
	}

	job := amqp091.Publishing{Type: start.JobType, Body: jobBody}

	job.DeliveryMode = amqp091.Persistent
	job.ContentType = "application/json"

	err = rabbitChannel.Publish("", queue.Name, true, false, job)

	if err != nil {
		panic(err)
	}
}
