package http

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const contactThanks = "Thank you for your submission!"

type MessageResponse struct {
	Message string `json:"message"`
}

type ContactHandler struct {
	contactUsecase usecase.ContactUC
	logger         logger.Logger
}

func NewContactHandler(contactUsecase usecase.ContactUC, logger logger.Logger) *ContactHandler {
	return &ContactHandler{contactUsecase: contactUsecase, logger: logger}
}

// submit
//
//	@Summary		Форма обратной связи
//	@Description	Принимает JSON или форму с полями fullname, email, content
//	@Tags			contact
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		usecase.ContactReq	true	"Сообщение"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	map[string][]usecase.FieldError	"Ошибки по полям"
//	@Router			/contact [post]
func (c *ContactHandler) submit(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 1 << 20

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	req, err := parseContactReq(r)
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	if err := c.contactUsecase.Submit(r.Context(), req); err != nil {
		code, _ := ToHTTPResponse(err)
		if code == http.StatusInternalServerError {
			c.logger.Errorf(err, "failed to submit contact message")
		}
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Message: contactThanks})
}

func parseContactReq(r *http.Request) (*usecase.ContactReq, error) {
	var req usecase.ContactReq

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	req.FullName = r.PostFormValue("fullname")
	req.Email = r.PostFormValue("email")
	req.Content = r.PostFormValue("content")

	return &req, nil
}
