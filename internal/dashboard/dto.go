// AngelaMos | 2026
// dto.go

package dashboard

import (
	"github.com/carterperez-dev/jobboard/internal/application"
	"github.com/carterperez-dev/jobboard/internal/job"
)

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type RecruiterDashboard struct {
	Role                        string                            `json:"role"`
	JobsByStatus                map[string]int                    `json:"jobsByStatus"`
	TotalJobs                   int                               `json:"totalJobs"`
	ApplicationsByStatus        map[string]int                    `json:"applicationsByStatus"`
	TotalApplications           int                               `json:"totalApplications"`
	TotalViews                  int                               `json:"totalViews"`
	AverageApplicationsPerJob   float64                           `json:"averageApplicationsPerJob"`
	RecentJobs                  []job.JobResponse                 `json:"recentJobs"`
	RecentApplications          []application.ApplicationResponse `json:"recentApplications"`
	ApplicationsReceivedByMonth []MonthCount                      `json:"applicationsReceivedByMonth"`
}

type DeveloperDashboard struct {
	Role                    string            `json:"role"`
	ApplicationsByStatus    map[string]int    `json:"applicationsByStatus"`
	TotalApplications       int               `json:"totalApplications"`
	SuccessRate             float64           `json:"successRate"`
	IsProfileComplete       bool              `json:"isProfileComplete"`
	ProfileCompletion       int               `json:"profileCompletion"`
	MissingFields           []string          `json:"missingFields"`
	RecommendedJobs         []job.JobResponse `json:"recommendedJobs"`
	ApplicationsSentByMonth []MonthCount      `json:"applicationsSentByMonth"`
}

type AdminDashboard struct {
	Role                 string         `json:"role"`
	UsersByRole          map[string]int `json:"usersByRole"`
	TotalUsers           int            `json:"totalUsers"`
	JobsByStatus         map[string]int `json:"jobsByStatus"`
	TotalJobs            int            `json:"totalJobs"`
	ApplicationsByStatus map[string]int `json:"applicationsByStatus"`
	TotalApplications    int            `json:"totalApplications"`
	TotalViews           int            `json:"totalViews"`
}
