package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubarcoiris/members-system/internal/core/ports"
)

type MemberHandler struct {
	memberService ports.MemberService
}

func NewMemberHandler(memberService ports.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List returns all club members.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Member
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.memberService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// Get returns a single member by id.
//
// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  domain.Member
// @Failure      404  {object}  map[string]string
// @Router       /api/members/{id} [get]
func (h *MemberHandler) Get(c echo.Context) error {
	member, err := h.memberService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}
