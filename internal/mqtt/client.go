package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/services"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// Client wraps the MQTT client: it evaluates measurements published by
// devices and publishes the resulting evaluations.
type Client struct {
	client            mqtt.Client
	parser            *services.MeasurementParser
	engine            *wqi.Engine
	topicMeasurements string
	topicResults      string
	evaluationHandler func(*models.Evaluation)
	errorHandler      func(error)
	isConnected       atomic.Bool
}

// Config holds MQTT connection configuration
type Config struct {
	BrokerURL         string
	ClientID          string
	Username          string
	Password          string
	KeepAlive         time.Duration
	PingTimeout       time.Duration
	ConnectRetry      bool
	TopicMeasurements string
	TopicResults      string
}

// DefaultConfig returns default MQTT configuration
func DefaultConfig() *Config {
	return &Config{
		BrokerURL:         "tcp://localhost:1883",
		ClientID:          "aquasmart_wqi",
		KeepAlive:         30 * time.Second,
		PingTimeout:       10 * time.Second,
		ConnectRetry:      true,
		TopicMeasurements: "aquasmart/wqi/+/measurements",
		TopicResults:      "aquasmart/wqi/%s/results",
	}
}

// NewClient creates a new MQTT client bound to the scoring engine
func NewClient(config *Config, engine *wqi.Engine) *Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.BrokerURL)
	opts.SetClientID(config.ClientID)
	opts.SetKeepAlive(config.KeepAlive)
	opts.SetPingTimeout(config.PingTimeout)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(config.ConnectRetry)

	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}

	client := &Client{
		parser:            services.NewMeasurementParser(),
		engine:            engine,
		topicMeasurements: config.TopicMeasurements,
		topicResults:      config.TopicResults,
	}

	opts.SetDefaultPublishHandler(client.defaultMessageHandler)
	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)

	client.client = mqtt.NewClient(opts)

	return client
}

// Connect establishes connection to MQTT broker
func (c *Client) Connect() error {
	log.Println("Connecting to MQTT broker...")

	token := c.client.Connect()
	if !token.WaitTimeout(30*time.Second) {
		return fmt.Errorf("timed out connecting to MQTT broker")
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Println("Successfully connected to MQTT broker")
	c.isConnected.Store(true)
	return nil
}

// Disconnect closes the MQTT connection and stops any pending connect retries
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
	if c.isConnected.Swap(false) {
		log.Println("Disconnected from MQTT broker")
	}
}

// IsConnected returns the connection status
func (c *Client) IsConnected() bool {
	return c.isConnected.Load() && c.client.IsConnected()
}

// SubscribeToMeasurements subscribes to the device measurement topic
func (c *Client) SubscribeToMeasurements() error {
	token := c.client.Subscribe(c.topicMeasurements, 1, c.measurementHandler)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", c.topicMeasurements, token.Error())
	}
	log.Printf("Subscribed to topic: %s", c.topicMeasurements)
	return nil
}

// SetEvaluationHandler sets the callback for every successful evaluation
func (c *Client) SetEvaluationHandler(handler func(*models.Evaluation)) {
	c.evaluationHandler = handler
}

// SetErrorHandler sets the callback function for errors
func (c *Client) SetErrorHandler(handler func(error)) {
	c.errorHandler = handler
}

// measurementHandler evaluates an incoming measurement and publishes the result
func (c *Client) measurementHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received measurement on topic %s: %s", msg.Topic(), string(msg.Payload()))

	eval, err := c.process(msg.Topic(), msg.Payload())
	if err != nil {
		log.Printf("Failed to evaluate measurement: %v", err)
		c.reportError(err)
		return
	}

	log.Printf("Evaluated %s for device %q: index=%.3f status=%s",
		eval.Variant, eval.DeviceID, eval.Index, eval.Status)

	if err := c.PublishEvaluation(eval); err != nil {
		log.Printf("Failed to publish evaluation: %v", err)
		c.reportError(err)
	}

	if c.evaluationHandler != nil {
		c.evaluationHandler(eval)
	}
}

// process parses and scores one message
func (c *Client) process(topic string, payload []byte) (*models.Evaluation, error) {
	variant, ok := VariantFromTopic(c.topicMeasurements, topic)
	if !ok {
		return nil, fmt.Errorf("topic %s does not name a variant", topic)
	}

	req, err := c.parser.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("measurement parsing failed: %w", err)
	}

	scorer, err := c.engine.Scorer(variant)
	if err != nil {
		return nil, err
	}

	res, err := scorer.Evaluate(req.Values)
	if err != nil {
		return nil, fmt.Errorf("device %q: %w", req.DeviceID, err)
	}

	return models.NewEvaluation(scorer.Spec(), res, models.SourceMQTT, req.DeviceID), nil
}

// PublishEvaluation publishes an evaluation to its variant's result topic
func (c *Client) PublishEvaluation(eval *models.Evaluation) error {
	payload, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	topic := ResultTopic(c.topicResults, eval.Variant)
	if token := c.client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish evaluation: %w", token.Error())
	}

	log.Printf("Published evaluation to %s", topic)
	return nil
}

func (c *Client) reportError(err error) {
	if c.errorHandler != nil {
		c.errorHandler(err)
	}
}

// defaultMessageHandler handles messages on unsubscribed topics
func (c *Client) defaultMessageHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received message on unhandled topic %s: %s", msg.Topic(), string(msg.Payload()))
}

// onConnect resubscribes, since clean sessions drop subscriptions on reconnect
func (c *Client) onConnect(client mqtt.Client) {
	log.Println("MQTT client connected")
	c.isConnected.Store(true)

	go func() {
		if err := c.SubscribeToMeasurements(); err != nil {
			log.Printf("MQTT resubscribe failed: %v", err)
			c.reportError(err)
		}
	}()
}

// onConnectionLost callback when connection is lost
func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection lost: %v", err)
	c.isConnected.Store(false)
	c.reportError(fmt.Errorf("MQTT connection lost: %w", err))
}

// VariantFromTopic returns the topic segment matched by the single "+" wildcard of filter
func VariantFromTopic(filter, topic string) (wqi.Variant, bool) {
	fparts := strings.Split(filter, "/")
	tparts := strings.Split(topic, "/")
	if len(fparts) != len(tparts) {
		return "", false
	}

	var variant string
	for i, f := range fparts {
		switch {
		case f == "+":
			if variant != "" || tparts[i] == "" {
				return "", false
			}
			variant = tparts[i]
		case f != tparts[i]:
			return "", false
		}
	}
	if variant == "" {
		return "", false
	}
	return wqi.Variant(strings.ToLower(variant)), true
}

// ResultTopic fills the variant into the results topic format
func ResultTopic(format string, variant wqi.Variant) string {
	if !strings.Contains(format, "%s") {
		return strings.TrimSuffix(format, "/") + "/" + string(variant)
	}
	return fmt.Sprintf(format, variant)
}
