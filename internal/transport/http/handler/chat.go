package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jogai-backend/internal/app"
	"jogai-backend/internal/model"
	"jogai-backend/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

// CreateChatRequest mirrors the wire format of the existing client: flat
// Portuguese config keys and an age that may arrive as number or string.
type CreateChatRequest struct {
	UserID          uint   `json:"user_id"`
	Title           string `json:"title"`
	Universe        string `json:"universo"`
	UniverseOther   string `json:"universo_outro"`
	Genre           string `json:"genero"`
	GenreOther      string `json:"genero_outro"`
	ProtagonistName string `json:"nome_protagonista"`
	GameWorldName   string `json:"nome_universo_jogo"`
	AntagonistName  string `json:"nome_antagonista"`
	Inspiration     string `json:"inspiracao"`
	Age             any    `json:"age"`
}

type UpdateTitleRequest struct {
	Title string `json:"title"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateObservationsRequest struct {
	Observations *string `json:"observations"`
}

type UpdateColorRequest struct {
	Color string `json:"color"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

// chatDetail adds the message list to a chat payload. The outer field wins
// over the embedded one, so the list is always present, empty included.
type chatDetail struct {
	model.Chat
	Messages []model.Message `json:"messages"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Requisição inválida")
		return
	}
	if req.UserID == 0 {
		response.Error(c, http.StatusBadRequest, "user_id é obrigatório")
		return
	}

	age, err := parseAge(req.Age)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Idade inválida. Deve ser um número inteiro.")
		return
	}

	chat, err := h.chatService.CreateChat(c.Request.Context(), app.CreateChatInput{
		UserID:           req.UserID,
		TitlePlaceholder: req.Title,
		Config: model.ChatConfig{
			Universe:        req.Universe,
			UniverseOther:   req.UniverseOther,
			Genre:           req.Genre,
			GenreOther:      req.GenreOther,
			ProtagonistName: req.ProtagonistName,
			GameWorldName:   req.GameWorldName,
			AntagonistName:  req.AntagonistName,
			Inspiration:     req.Inspiration,
			Age:             age,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidAge):
			response.Error(c, http.StatusBadRequest, "Idade deve ser um número entre 4 e 150.")
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "Usuário não encontrado")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "user_id é obrigatório")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao criar chat")
		}
		return
	}

	c.JSON(http.StatusCreated, chatDetail{Chat: *chat, Messages: []model.Message{}})
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "user_id inválido")
		return
	}

	chats, err := h.chatService.ListChats(userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "Usuário não encontrado")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao listar chats")
		}
		return
	}

	c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chat_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "chat_id inválido")
		return
	}

	chat, messages, err := h.chatService.GetChat(c.Request.Context(), chatID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrChatNotFound):
			response.Error(c, http.StatusNotFound, "Chat não encontrado")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao carregar chat")
		}
		return
	}

	if messages == nil {
		messages = []model.Message{}
	}
	c.JSON(http.StatusOK, chatDetail{Chat: *chat, Messages: messages})
}

func (h *ChatHandler) UpdateTitle(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chat_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "chat_id inválido")
		return
	}

	var req UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Título não pode ser vazio")
		return
	}

	chat, err := h.chatService.UpdateTitle(chatID, req.Title)
	if err != nil {
		h.respondUpdateError(c, err, "Título não pode ser vazio")
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) UpdateStatus(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chat_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "chat_id inválido")
		return
	}

	invalidStatus := fmt.Sprintf("Status inválido. Válidos: %v", model.Statuses())

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, invalidStatus)
		return
	}

	chat, err := h.chatService.UpdateStatus(chatID, model.Status(req.Status))
	if err != nil {
		h.respondUpdateError(c, err, invalidStatus)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) UpdateObservations(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chat_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "chat_id inválido")
		return
	}

	var req UpdateObservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Observations == nil {
		response.Error(c, http.StatusBadRequest, "Observações são obrigatórias (mesmo que string vazia)")
		return
	}

	chat, err := h.chatService.UpdateObservations(chatID, *req.Observations)
	if err != nil {
		h.respondUpdateError(c, err, "Observações são obrigatórias (mesmo que string vazia)")
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) UpdateColor(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chat_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "chat_id inválido")
		return
	}

	var req UpdateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Formato de cor inválido. Use #RRGGBB.")
		return
	}

	chat, err := h.chatService.UpdateColor(chatID, req.Color)
	if err != nil {
		h.respondUpdateError(c, err, "Formato de cor inválido. Use #RRGGBB.")
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) DeleteChat(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chat_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "chat_id inválido")
		return
	}

	if err := h.chatService.DeleteChat(c.Request.Context(), chatID); err != nil {
		switch {
		case errors.Is(err, app.ErrChatNotFound):
			response.Error(c, http.StatusNotFound, "Chat não encontrado")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao deletar chat")
		}
		return
	}

	response.Message(c, http.StatusOK, "Chat deletado com sucesso")
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	chatID, ok := parseIDParam(c, "chat_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "chat_id inválido")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Mensagem é obrigatória")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), chatID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrGeminiDisabled):
			response.Error(c, http.StatusServiceUnavailable, "Modelo Gemini não configurado.")
		case errors.Is(err, app.ErrChatNotFound):
			response.Error(c, http.StatusNotFound, "Chat não encontrado")
		case errors.Is(err, app.ErrEmptyMessage):
			response.Error(c, http.StatusBadRequest, "Mensagem é obrigatória")
		case errors.Is(err, app.ErrUpstream):
			response.Error(c, http.StatusInternalServerError, "Erro ao comunicar com o Gemini: "+err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao enviar mensagem")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_message":   result.UserMessage,
		"gemini_message": result.GeminiMessage,
		"chat_status":    result.Status,
	})
}

func (h *ChatHandler) LastUsedAge(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "user_id inválido")
		return
	}

	age, err := h.chatService.LastUsedAge(userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "Usuário não encontrado")
		default:
			response.Error(c, http.StatusInternalServerError, "Erro ao buscar idade")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"last_used_age": age})
}

func (h *ChatHandler) respondUpdateError(c *gin.Context, err error, validationMessage string) {
	switch {
	case errors.Is(err, app.ErrChatNotFound):
		response.Error(c, http.StatusNotFound, "Chat não encontrado")
	case errors.Is(err, app.ErrEmptyTitle),
		errors.Is(err, app.ErrInvalidStatus),
		errors.Is(err, app.ErrInvalidColor):
		response.Error(c, http.StatusBadRequest, validationMessage)
	default:
		response.Error(c, http.StatusInternalServerError, "Erro ao atualizar chat")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

// parseAge accepts the age as a JSON number or a numeric string; any other
// shape is a validation error. Absent means absent, not zero.
func parseAge(raw any) (*int, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("age is not an integer")
		}
		age := int(v)
		return &age, nil
	case string:
		age, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("age is not an integer: %w", err)
		}
		return &age, nil
	default:
		return nil, fmt.Errorf("unsupported age type %T", raw)
	}
}
