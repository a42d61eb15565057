package main

var (
	OwnerName = "Narlapati Ramu"

	Headline = "Electrical and Electronics Engineer"

	AboutMe = `I'm Narlapati Ramu, an Electrical and Electronics Engineer passionate about building solutions
	at the intersection of AI, Embedded Systems, and Web Technologies. Currently learning AI for Embedded
	Systems and developing an Autonomous Grid Simulation prototype, I explore optimization of distributed
	energy loads with adaptive control.`
)
