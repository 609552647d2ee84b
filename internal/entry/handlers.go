package entry

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
)

// Submission is the manual entry request body. All fields are free text.
type Submission struct {
	Name      string `json:"name" form:"name"`
	Latitude  string `json:"latitude" form:"latitude"`
	Longitude string `json:"longitude" form:"longitude"`
}

// RegisterHandlers registers the manual entry handler
func RegisterHandlers(r gin.IRouter, form *Form) {
	r.POST("/stations", handleSubmit(form))
}

// handleSubmit returns 201 with the added station, or 422 echoing the
// submitted values so the form can stay filled in
func handleSubmit(form *Form) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sub Submission
		if err := c.ShouldBind(&sub); err != nil {
			glog.V(1).Infof("Bad manual entry request: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		station, err := form.Submit(sub.Name, sub.Latitude, sub.Longitude)
		if errors.Is(err, ErrInvalidInput) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     ErrInvalidInput.Error(),
				"submitted": sub,
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.JSON(http.StatusCreated, station)
	}
}
