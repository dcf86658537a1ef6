package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/terangalabs/alertsn/errors"
	"github.com/terangalabs/alertsn/models"
	"github.com/terangalabs/alertsn/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.SignupRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		user, errr := s.AuthService.SignupUser(&request)
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Signup successful", http.StatusCreated, user, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.LoginRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		loginResponse, errr := s.AuthService.LoginUser(&request)
		if errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, exists := c.Get("access_token")
		if !exists {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		if errr := s.AuthService.LogoutUser(accessToken.(string)); errr != nil {
			response.JSON(c, "", errr.Status, nil, errr)
			return
		}

		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}
