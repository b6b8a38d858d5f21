package content

import (
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (crm *ContentRoutesManager) GetAbout(w http.ResponseWriter, r *http.Request) {
	about, err := crm.contentService.GetAbout(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch about page", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(about),
		gecho.Send(),
	)
}

// SubmitContact stores the message; the admin notification is best effort.
func (crm *ContentRoutesManager) SubmitContact(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ContactRequest](r)
	if err != nil {
		handling.RespondError(err, "Contact message", crm.logger, w)
		return
	}

	msg, err := crm.contentService.SubmitContact(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to send message", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Thanks for reaching out"),
		gecho.WithData(msg),
		gecho.Send(),
	)
}
