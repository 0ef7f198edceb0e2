package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/Rrens/promptdesk/internal/api/middleware"
	"github.com/Rrens/promptdesk/internal/api/response"
	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/service"
)

// room for the non-file multipart fields and part headers
const multipartOverhead = 1 << 20

// ChatHandler handles the chat proxy endpoint
type ChatHandler struct {
	chatService      *service.ChatService
	maxDocumentBytes int64
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, maxDocumentBytes int64) *ChatHandler {
	return &ChatHandler{chatService: chatService, maxDocumentBytes: maxDocumentBytes}
}

// Chat accepts multipart/form-data (projectId, messages, optional file)
// or a JSON body {projectId, messages}.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, middleware.MsgUnauthenticated)
		return
	}

	limit := h.maxDocumentBytes + multipartOverhead
	if r.ContentLength > limit {
		response.Error(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var (
		input service.ChatInput
		err   error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		input, err = h.readMultipart(r)
	} else {
		input, err = readJSON(r)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), errors.Is(err, domain.ErrPayloadTooLarge):
			response.Error(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		default:
			response.BadRequest(w, msgInvalidBody)
		}
		return
	}

	reply, err := h.chatService.Chat(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, err, msgFailed)
		return
	}

	response.OK(w, map[string]string{"message": reply})
}

func (h *ChatHandler) readMultipart(r *http.Request) (service.ChatInput, error) {
	if err := r.ParseMultipartForm(h.maxDocumentBytes + multipartOverhead); err != nil {
		return service.ChatInput{}, err
	}

	input := service.ChatInput{
		ProjectID: r.FormValue("projectId"),
		Messages:  []byte(r.FormValue("messages")),
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return input, err
	}
	defer file.Close()

	if header.Size > h.maxDocumentBytes {
		return input, domain.ErrPayloadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxDocumentBytes+1))
	if err != nil {
		return input, err
	}
	if int64(len(data)) > h.maxDocumentBytes {
		return input, domain.ErrPayloadTooLarge
	}

	input.Attachment = &service.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return input, nil
}

type chatRequest struct {
	ProjectID string          `json:"projectId"`
	Messages  json.RawMessage `json:"messages"`
}

// readJSON accepts messages either as an array or as a serialized string
func readJSON(r *http.Request) (service.ChatInput, error) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return service.ChatInput{}, err
	}

	messages := bytes.TrimSpace(req.Messages)
	if len(messages) > 0 && messages[0] == '"' {
		var serialized string
		if err := json.Unmarshal(messages, &serialized); err != nil {
			return service.ChatInput{}, err
		}
		messages = []byte(serialized)
	}

	return service.ChatInput{ProjectID: req.ProjectID, Messages: messages}, nil
}
