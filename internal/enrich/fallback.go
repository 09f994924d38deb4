package enrich

import (
	"strings"

	"github.com/quadrant-labs/StrategyPipe/internal/models"
)

// RequiredPillarTitles is the fixed pillar set every strategy must cover.
// The model is asked to return all of them but is not trusted to; callers
// merge its output with DefaultPillars.
var RequiredPillarTitles = []string{"Governance", "Efficiency", "Security", "Adoption", "Usability"}

// DefaultPillars returns the fixed pillar set with empty descriptions, used
// as the merge base for generated pillars.
func DefaultPillars() []models.Pillar {
	out := make([]models.Pillar, len(RequiredPillarTitles))
	for i, title := range RequiredPillarTitles {
		out[i] = models.Pillar{Title: title, Description: "", ActionItems: []string{}}
	}
	return out
}

// MergeWithDefaults prepends the default pillar set to the generated ones,
// dropping generated pillars whose title matches a default case-insensitively.
// Default order is preserved, then generated order.
func MergeWithDefaults(generated []models.Pillar) []models.Pillar {
	combined := DefaultPillars()
	for _, p := range generated {
		duplicate := false
		for _, title := range RequiredPillarTitles {
			if strings.EqualFold(p.Title, title) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			combined = append(combined, p)
		}
	}
	return combined
}

// FallbackPillarsStrategies is the fixed payload substituted when the
// pillars/strategies call fails: the five standard pillars fully populated,
// two extras, and the three named strategies. The user always sees complete
// content, never an error state.
func FallbackPillarsStrategies() models.PillarsStrategies {
	return models.PillarsStrategies{
		Pillars: []models.Pillar{
			{
				Title:       "Governance",
				Description: "Establish clear oversight, accountability, and decision-making frameworks tailored to your organization to ensure strategic alignment, regulatory compliance, and effective resource allocation across all initiatives.",
				ActionItems: []string{
					"Define roles and responsibilities for key stakeholders",
					"Create governance committees with clear mandates",
					"Establish approval workflows for decisions and changes",
					"Set up regular review cycles and performance metrics",
				},
			},
			{
				Title:       "Efficiency",
				Description: "Optimize processes and resources across your operations to maximize productivity while minimizing waste, redundancy, and operational costs through systematic improvement and automation initiatives.",
				ActionItems: []string{
					"Identify and document process bottlenecks",
					"Automate repetitive and manual tasks",
					"Streamline workflows across departments",
					"Measure and track key performance indicators",
				},
			},
			{
				Title:       "Security",
				Description: "Implement comprehensive security measures and protocols to protect data, systems, and operations from internal and external threats, vulnerabilities, and compliance risks in an evolving threat landscape.",
				ActionItems: []string{
					"Conduct thorough security audits and assessments",
					"Implement role-based access controls",
					"Establish data protection and privacy policies",
					"Train staff on security best practices and protocols",
				},
			},
			{
				Title:       "Adoption",
				Description: "Drive user engagement and ensure successful implementation through effective change management, comprehensive training programs, and continuous support to maximize tool utilization and ROI.",
				ActionItems: []string{
					"Develop role-specific training programs",
					"Create comprehensive user documentation",
					"Establish dedicated support channels",
					"Gather and act on user feedback regularly",
				},
			},
			{
				Title:       "Usability",
				Description: "Enhance user experience through intuitive design, accessibility standards, and responsive interfaces that meet diverse user needs while reducing friction and increasing satisfaction across all touchpoints.",
				ActionItems: []string{
					"Conduct regular usability testing sessions",
					"Simplify user interfaces and workflows",
					"Ensure compliance with accessibility standards",
					"Optimize performance for mobile devices",
				},
			},
			{
				Title:       "Innovation",
				Description: "Foster a culture of continuous improvement and innovation through experimentation, rapid prototyping, and systematic adoption of emerging technologies to maintain competitive advantage.",
				ActionItems: []string{
					"Establish innovation labs or pilot programs",
					"Create feedback loops for continuous improvement",
					"Implement rapid prototyping methodologies",
					"Allocate resources for research and development",
				},
			},
			{
				Title:       "Scalability",
				Description: "Build flexible, future-proof systems and processes that can grow seamlessly with your organization while maintaining performance, reliability, and cost-effectiveness.",
				ActionItems: []string{
					"Design modular and extensible architecture",
					"Implement cloud-native solutions where appropriate",
					"Plan for future growth in infrastructure",
					"Document scaling strategies and triggers",
				},
			},
		},
		Strategies: []models.Strategy{
			{
				Title:       "Generate Use Cases to Test",
				Description: "Develop comprehensive test scenarios and use cases that validate your strategic approach across different contexts, ensuring the solution meets diverse stakeholder requirements and handles edge cases effectively.",
				Steps: []string{
					"Identify key stakeholder requirements and pain points",
					"Map detailed user journeys and interaction patterns",
					"Create test scenarios covering normal and edge cases",
					"Document expected outcomes for each use case",
					"Prioritize use cases by business impact and risk",
				},
			},
			{
				Title:       "Verify Design Effectiveness",
				Description: "Systematically evaluate whether your design and implementation meet business objectives and user needs through rigorous testing, measurement, and iterative refinement based on real-world feedback.",
				Steps: []string{
					"Conduct usability testing with representative users",
					"Gather feedback from all key stakeholders",
					"Measure performance against defined success metrics",
					"Identify gaps and areas for improvement",
					"Iterate based on findings and retest",
				},
			},
			{
				Title:       "Isolate Operational Blockers",
				Description: "Proactively identify, document, and address obstacles, dependencies, and bottlenecks that prevent successful implementation, ensuring smooth operations and minimizing risks to project success.",
				Steps: []string{
					"Map current operational workflows in detail",
					"Identify bottlenecks, dependencies, and constraints",
					"Assess impact and urgency of each blocker",
					"Prioritize blockers by business impact",
					"Develop and implement mitigation strategies",
					"Monitor progress and adjust as needed",
				},
			},
		},
	}
}

// FallbackActionPlan is the fixed payload substituted when the final plan
// call fails.
func FallbackActionPlan() models.ActionPlan {
	return models.ActionPlan{
		Summary: "Based on your strategic inputs, we've developed a comprehensive roadmap that addresses your investment priorities, operational challenges, and desired outcomes. This plan integrates key pillars of governance, efficiency, security, adoption, and usability while focusing on measurable results and sustainable implementation. The approach emphasizes quick wins in the first 30 days while building toward long-term transformation goals.",
		ActionPlan: []models.ActionCategory{
			{
				Category: "Immediate Actions (Week 1-2)",
				Actions: []string{
					"Schedule kickoff meeting with all key stakeholders",
					"Document current state baseline metrics and KPIs",
					"Identify and secure necessary resources and budget",
					"Set up project tracking and communication channels",
				},
			},
			{
				Category: "30-Day Plan",
				Actions: []string{
					"Launch pilot program with selected user group",
					"Implement initial training sessions for early adopters",
					"Establish weekly feedback loops and review meetings",
					"Deploy quick wins to build momentum and confidence",
					"Document lessons learned and adjust approach",
				},
			},
			{
				Category: "90-Day Goals",
				Actions: []string{
					"Complete full rollout across target departments",
					"Achieve 70% user adoption rate",
					"Demonstrate measurable improvements in efficiency metrics",
					"Finalize all documentation and training materials",
					"Conduct comprehensive review and optimization",
				},
			},
			{
				Category: "Key Stakeholders & Responsibilities",
				Actions: []string{
					"Executive sponsors: Provide strategic direction and remove blockers",
					"Project manager: Coordinate activities and track progress",
					"Technical team: Handle implementation and integration",
					"Change management lead: Drive adoption and training",
					"End users: Provide feedback and participate in testing",
				},
			},
			{
				Category: "Success Metrics & KPIs",
				Actions: []string{
					"User adoption rate: Target 80% within 90 days",
					"Process efficiency: 30% reduction in manual tasks",
					"User satisfaction: 4+ rating in feedback surveys",
					"ROI achievement: Meet projected financial targets",
					"Incident reduction: 50% fewer operational issues",
				},
			},
			{
				Category: "Risk Mitigation",
				Actions: []string{
					"Maintain detailed risk register with mitigation plans",
					"Establish rollback procedures for critical changes",
					"Create contingency budget (15-20% of total)",
					"Schedule regular risk review meetings",
					"Build redundancy in critical path activities",
				},
			},
		},
	}
}
