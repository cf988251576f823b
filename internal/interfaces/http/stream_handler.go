package http

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/watch"
)

// heartbeatInterval mantém vivos os proxies entre heartbeats quando não há
// escritas na empresa.
const heartbeatInterval = 25 * time.Second

var validTopics = map[string]bool{
	watch.TopicProducts:  true,
	watch.TopicSuppliers: true,
	watch.TopicMovements: true,
	watch.TopicLogs:      true,
	watch.TopicUsers:     true,
	watch.TopicInvites:   true,
}

// StreamHandler entrega revisões por SSE. Cada evento diz ao cliente que o
// conjunto (empresa, tópico) mudou; o cliente reconsulta o snapshot
// completo pela rota de listagem, nunca recebe deltas.
type StreamHandler struct {
	events *watch.Broker
}

// NewStreamHandler constrói o handler.
func NewStreamHandler(events *watch.Broker) *StreamHandler {
	return &StreamHandler{events: events}
}

// Subscribe godoc
// @Summary      Subscrever atualizações de um tópico da empresa ativa
// @Description  Server-Sent Events com revisões monótonas. A primeira
// @Description  revisão chega de imediato; revisões intermédias podem ser
// @Description  coalescidas, a mais recente nunca se perde. Fechar a
// @Description  ligação cancela a subscrição.
// @Tags         stream
// @Security     Bearer
// @Produce      text/event-stream
// @Param        topic  path  string  true  "products | suppliers | stock_movements | logs | users | invites"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stream/{topic} [get]
func (h *StreamHandler) Subscribe(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	topic := c.Params("topic")
	if !validTopics[topic] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_TOPIC", Message: "tópico desconhecido"})
	}

	return h.stream(c, companyID, topic)
}

// SubscribeMyInvites godoc
// @Summary      Subscrever os convites pendentes do próprio utilizador
// @Description  Como /api/stream/{topic}, mas o âmbito é o email do
// @Description  destinatário, por isso funciona mesmo antes de ele aderir
// @Description  a qualquer empresa.
// @Tags         stream
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stream/me/invites [get]
func (h *StreamHandler) SubscribeMyInvites(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.Email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNKNOWN_USER", Message: "utilizador sem email"})
	}
	return h.stream(c, actor.Email, watch.TopicInvites)
}

// stream escreve as revisões de (âmbito, tópico) como SSE até o cliente
// fechar a ligação.
func (h *StreamHandler) stream(c *fiber.Ctx, scope, topic string) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	sub := h.events.Subscribe(scope, topic)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Unsubscribe()
		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()
		for {
			select {
			case rev, ok := <-sub.C:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: revision\ndata: {\"topic\":%q,\"revision\":%d}\n\n", topic, rev)
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
